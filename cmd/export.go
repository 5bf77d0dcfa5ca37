/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/harari-inventory/apiserver/config"
	"github.com/harari-inventory/apiserver/internal/export"
	"github.com/harari-inventory/apiserver/internal/services"
	"github.com/harari-inventory/apiserver/internal/sheets"
	"github.com/harari-inventory/apiserver/internal/storage"
	"github.com/harari-inventory/apiserver/internal/store"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportKeep   int
)

// exportCmd writes an xlsx snapshot locally or to object storage.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports an inventory snapshot as xlsx",
	Long: `Exports the inventory, count and log sheets as one xlsx workbook.

	inventory export --output snapshot.xlsx
	EXPORT_BACKEND=gcs inventory export --keep 30
`,
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
		snapshots := services.NewSnapshotService(
			store.NewInventoryRepository(client, names.Inventory),
			store.NewCountRepository(client, names.Count),
			store.NewLogRepository(client, names.Log),
		)
		snap, err := snapshots.Collect(ctx)
		if err != nil {
			return err
		}
		data, err := export.Bytes(snap)
		if err != nil {
			return fmt.Errorf("render snapshot: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", exportOutput)
			return nil
		}

		archive, err := storage.Open(ctx, cfg)
		if err != nil {
			return err
		}
		if archive == nil {
			return errors.New("set --output or EXPORT_BACKEND")
		}
		defer archive.Close()
		if err := archive.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("ensure bucket %s: %w", archive.Bucket(), err)
		}

		key, err := archive.SaveSnapshot(ctx, time.Now(), data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s/%s\n", archive.Bucket(), key)

		if exportKeep > 0 {
			deleted, err := archive.Prune(ctx, exportKeep)
			if err != nil {
				return err
			}
			for _, key := range deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %s\n", key)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write the workbook to this file instead of uploading")
	exportCmd.Flags().IntVar(&exportKeep, "keep", 0, "after uploading, keep only this many newest snapshots")
}
