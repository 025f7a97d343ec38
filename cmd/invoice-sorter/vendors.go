package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/invoice-sorter/internal/common"
	"github.com/joseph-ayodele/invoice-sorter/internal/vendors"
)

var vendorsJSON bool

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "Print the vendor ranking table",
	Long:  "Load the configured vendor order sheet and print the ranked vendors that survive row filtering.",
	Args:  cobra.NoArgs,
	RunE:  runVendors,
}

func init() {
	vendorsCmd.Flags().BoolVar(&vendorsJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(vendorsCmd)
}

func runVendors(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := setupLogger(cfg.Log)

	ctx, cancel := common.WithTimeout(cmd.Context(), cfg.Vendors.FetchTimeout)
	defer cancel()

	src, err := vendors.NewSource(cfg.Vendors, logger)
	if err != nil {
		return err
	}
	table, err := vendors.Load(ctx, src, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if vendorsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(table.Records())
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tVENDOR\tPACKING\tROUTE\tROW")
	for _, r := range table.Records() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", r.Rank, r.Name, r.PackingNote, r.Route, r.Row)
	}
	return tw.Flush()
}
