package schoolstats

import (
	"encoding/csv"
	"io"
	"strconv"

	"edustats-backend/lib/scrapers/edugis"
)

// CSVHeader is the column set of an export, in record field order.
var CSVHeader = []string{
	"鄉鎮市區", "學校名稱", "班級數", "學生數", "教師數", "校地面積", "校舍面積", "棟數",
}

// WriteCSV renders records as a CSV export: one header row, one row per
// record, numbers in plain (non-locale) form. A UTF-8 BOM is prepended
// so Excel opens the Chinese headers correctly.
func WriteCSV(w io.Writer, records []edugis.Record) error {
	_, err := w.Write([]byte("\ufeff"))
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	err = cw.Write(CSVHeader)
	if err != nil {
		return err
	}

	for _, r := range records {
		err = cw.Write([]string{
			r.District.String(),
			r.SchoolName,
			strconv.Itoa(r.Classes),
			strconv.Itoa(r.Students),
			strconv.Itoa(r.Teachers),
			strconv.FormatFloat(r.CampusArea, 'f', -1, 64),
			strconv.FormatFloat(r.BuildingArea, 'f', -1, 64),
			strconv.Itoa(r.Buildings),
		})
		if err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
