package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestGetText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<td><span>宜昌</span>國小</td>`,
	))
	require.NoError(t, err)

	cell := doc.Find("td")
	require.Len(t, cell.Nodes, 1)
	require.Equal(t, "宜昌國小", GetText(cell.Nodes[0]))
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "宜昌 國小", CleanText("  宜昌 \n  國小\t"))
	require.Equal(t, "5,000", CleanText(" 5,000\u00a0\u200b "))
	require.Equal(t, "", CleanText("   "))
}
