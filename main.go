package main

import (
	"os"

	"github.com/insightdelivered/stat-report-converter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
