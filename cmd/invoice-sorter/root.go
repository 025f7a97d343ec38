package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-sorter/internal/common"
)

var (
	verbose     bool
	logJSON     bool
	catalogPath string
	vendorURL   string
	vendorFile  string
	vendorSheet string
)

var rootCmd = &cobra.Command{
	Use:   "invoice-sorter",
	Short: "Sort a batch of invoices by date and packing note, with daily summaries",
	Long: `invoice-sorter splits an uploaded invoice PDF into individual invoices,
orders them by date, packing note, route and vendor rank, and inserts a daily
item summary after each date.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "item catalog YAML (default: built-in)")
	rootCmd.PersistentFlags().StringVar(&vendorURL, "vendor-url", "", "URL of the vendor order sheet as CSV")
	rootCmd.PersistentFlags().StringVar(&vendorFile, "vendor-file", "", "local vendor order sheet (.csv or .xlsx)")
	rootCmd.PersistentFlags().StringVar(&vendorSheet, "vendor-sheet", "", "sheet name inside an .xlsx vendor file")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the environment and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) *common.Config {
	cfg := common.LoadConfig()
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog.Path = catalogPath
	}
	if flags.Changed("vendor-url") {
		cfg.Vendors.SheetURL = vendorURL
		cfg.Vendors.File = ""
	}
	if flags.Changed("vendor-file") {
		cfg.Vendors.File = vendorFile
		cfg.Vendors.SheetURL = ""
	}
	if flags.Changed("vendor-sheet") {
		cfg.Vendors.SheetName = vendorSheet
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("log-json") {
		cfg.Log.JSON = logJSON
	}
	return cfg
}

// setupLogger installs the process-wide logger. Logs go to stderr so stdout
// stays free for command output.
func setupLogger(cfg common.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}
