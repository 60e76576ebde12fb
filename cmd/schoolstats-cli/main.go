package main

import (
	"os"

	"edustats-backend/cmd/schoolstats-cli/cmd"
)

func main() {
	baseUrl, ok := os.LookupEnv("EDUGIS_BASE_URL")
	if ok {
		cmd.BaseUrl = baseUrl
	}

	cmd.Execute()
}
