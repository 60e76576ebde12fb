package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"edustats-backend/lib/scrapers/edugis"
	"edustats-backend/services/schoolstats"

	"github.com/spf13/cobra"
)

var BaseUrl = "https://stats.moe.gov.tw"

var rootCmd = &cobra.Command{
	Use:   "schoolstats-cli",
	Short: "schoolstats-cli queries elementary school statistics for 花蓮市 and 吉安鄉 from the MOE portal.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// fetchRecords runs the pipeline once with no caching, the cli always
// wants fresh data.
func fetchRecords(ctx context.Context) []edugis.Record {
	client, err := edugis.NewClient(edugis.ClientOptions{BaseUrl: BaseUrl})
	if err != nil {
		log.Fatal(err)
	}

	service := schoolstats.NewService(client, schoolstats.Options{})
	snapshot, err := service.GetData(ctx, true)
	if err != nil {
		log.Fatal(err)
	}
	return snapshot.Records
}
