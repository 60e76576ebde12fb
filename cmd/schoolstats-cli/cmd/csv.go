package cmd

import (
	"fmt"
	"log"
	"os"

	"edustats-backend/lib/timezone"
	"edustats-backend/services/schoolstats"

	"github.com/spf13/cobra"
)

var csvOutput string

func init() {
	csvCmd.Flags().StringVarP(&csvOutput, "output", "o", "", "output file, defaults to a dated filename in the working directory")
	rootCmd.AddCommand(csvCmd)
}

var csvCmd = &cobra.Command{
	Use:   "csv",
	Short: "Fetches the current statistics and writes them to a CSV file.",
	Run: func(cmd *cobra.Command, args []string) {
		records := fetchRecords(cmd.Context())

		output := csvOutput
		if output == "" {
			output = fmt.Sprintf("花蓮市吉安鄉國小資料_%s.csv", timezone.Now().Format("20060102"))
		}

		f, err := os.Create(output)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		err = schoolstats.WriteCSV(f, records)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %d schools to %s\n", len(records), output)
	},
}
