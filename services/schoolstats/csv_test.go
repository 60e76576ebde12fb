package schoolstats

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"edustats-backend/lib/scrapers/edugis"

	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	records := []edugis.Record{
		{
			District:   edugis.DistrictHualienCity,
			SchoolName: "某國小",
			Classes:    12, Students: 350, Teachers: 28,
			CampusArea: 5000, BuildingArea: 3200.5, Buildings: 4,
		},
		{
			District:   edugis.DistrictJianTownship,
			SchoolName: "明義國小",
			Classes:    0, Students: 0, Teachers: 0,
			CampusArea: 0, BuildingArea: 0, Buildings: 0,
		},
	}

	buf := bytes.Buffer{}
	err := WriteCSV(&buf, records)
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "export must start with a UTF-8 BOM")

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, CSVHeader, rows[0])
	require.Equal(t,
		[]string{"花蓮市", "某國小", "12", "350", "28", "5000", "3200.5", "4"},
		rows[1])
	require.Equal(t,
		[]string{"吉安鄉", "明義國小", "0", "0", "0", "0", "0", "0"},
		rows[2])
}

func TestWriteCSVEmptyDataset(t *testing.T) {
	buf := bytes.Buffer{}
	err := WriteCSV(&buf, nil)
	require.NoError(t, err)

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\ufeff")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
