// Package main provides the pedigree command line tool. It extracts,
// analyses and exports pedigrees from local files without running the
// HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/OFFIS-RIT/pedigree/backend/internal/config"
	"github.com/OFFIS-RIT/pedigree/backend/internal/util"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger"
	"github.com/OFFIS-RIT/pedigree/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()
	cfg := config.Load()

	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
		JSON:  cfg.LogJSON,
	}))

	if err := rootCmd(cfg, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
