package cmd

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetches the current statistics and prints them as a table.",
	Run: func(cmd *cobra.Command, args []string) {
		records := fetchRecords(cmd.Context())

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"鄉鎮市區", "學校名稱", "班級數", "學生數", "教師數", "校地面積", "校舍面積", "棟數",
		})
		for _, r := range records {
			t.AppendRow(table.Row{
				r.District.String(),
				r.SchoolName,
				r.Classes,
				r.Students,
				r.Teachers,
				r.CampusArea,
				r.BuildingArea,
				r.Buildings,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
