/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/harari-inventory/apiserver/config"
	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/internal/store"
	"github.com/spf13/cobra"
)

var checkSeed bool

// checkCmd probes the configured spreadsheet.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks the spreadsheet connection",
	Long: `Reads the spreadsheet title to confirm credentials and sharing. With
--seed, header rows are appended to sheets that are still empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := newLogger(cfg)
		ctx := cmd.Context()
		names := store.SheetsFromConfig(cfg.Sheets)

		backend, closeStore, err := sheets.Open(ctx, cfg.Store, names.Names()...)
		if err != nil {
			return err
		}
		defer closeStore()

		client := sheets.NewClient(backend, log)
		title, err := client.Title(ctx)
		if err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "connected to %q", title)
		if id := client.SpreadsheetID(); id != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " (%s)", id)
		}
		fmt.Fprintln(cmd.OutOrStdout())

		if !checkSeed {
			return nil
		}
		seeded, err := store.Bootstrap(ctx, client, names)
		if err != nil {
			return err
		}
		for _, sheet := range seeded {
			fmt.Fprintf(cmd.OutOrStdout(), "seeded header row in %s\n", sheet)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkSeed, "seed", false, "append header rows to empty sheets")
}
