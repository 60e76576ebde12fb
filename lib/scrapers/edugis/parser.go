package edugis

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"edustats-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// the contractually assumed column order of the portal's results table
var headerColumns = []string{
	"學校名稱", "班級數", "學生數", "教師數", "校地面積", "校舍面積", "棟數",
}

func hasResultsSection(doc *goquery.Document) bool {
	if doc.Find("div#search").Length() > 0 {
		return true
	}
	return findResultsTable(doc) != nil
}

// findResultsTable locates the table whose header row carries the known
// column set. Actual header cells include units (e.g. 校地面積(平方公尺))
// so matching is by prefix containment, not equality.
func findResultsTable(doc *goquery.Document) *goquery.Selection {
	var result *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		header := table.Find("tr").First()
		headerText := htmlutil.CleanText(header.Text())
		if strings.Contains(headerText, headerColumns[0]) &&
			strings.Contains(headerText, headerColumns[1]) {
			result = table
			return false
		}
		return true
	})
	return result
}

func rowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		if len(cell.Nodes) == 0 {
			cells = append(cells, "")
			return
		}
		cells = append(cells, htmlutil.CleanText(htmlutil.GetText(cell.Nodes[0])))
	})
	return cells
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// isLayoutRow reports header, footer and aggregate rows that must not
// become records: empty name cells, repeated header captions, and
// 總計/合計 rows.
func isLayoutRow(cells []string) bool {
	if len(cells) == 0 || cells[0] == "" {
		return true
	}
	if strings.Contains(cells[0], "總計") || strings.Contains(cells[0], "合計") {
		return true
	}
	if strings.Contains(cells[0], headerColumns[0]) {
		return true
	}
	// caption rows repeat column names in numeric positions
	if len(cells) > 1 && cells[1] != "" && !containsDigit(cells[1]) {
		return true
	}
	return false
}

// parseCount applies the documented normalization policy: thousands
// separators and whitespace are stripped, blank or non-numeric cells
// uniformly become zero.
func parseCount(s string) int {
	n, err := strconv.Atoi(normalizeNumeric(s))
	if err != nil {
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

func parseArea(s string) float64 {
	f, err := strconv.ParseFloat(normalizeNumeric(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func normalizeNumeric(s string) string {
	s = strings.ReplaceAll(s, ",", "")
	return strings.ReplaceAll(s, " ", "")
}

// ParseSchoolTable extracts every school row from a results page. A
// recognized table with zero data rows yields an empty, non-nil slice.
func ParseSchoolTable(html string, district District) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrParse, err)
	}

	table := findResultsTable(doc)
	if table == nil {
		return nil, fmt.Errorf("%w: district %s", ErrParse, district)
	}

	records := []Record{}
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := rowCells(row)
		if isLayoutRow(cells) {
			return
		}
		// short rows are rendering artifacts, never data
		if len(cells) < len(headerColumns) {
			return
		}

		records = append(records, Record{
			District:     district,
			SchoolName:   cells[0],
			Classes:      parseCount(cells[1]),
			Students:     parseCount(cells[2]),
			Teachers:     parseCount(cells[3]),
			CampusArea:   parseArea(cells[4]),
			BuildingArea: parseArea(cells[5]),
			Buildings:    parseCount(cells[6]),
		})
	})

	return records, nil
}
