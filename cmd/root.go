/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/harari-inventory/apiserver/config"
	"github.com/harari-inventory/apiserver/internal/logger"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Spreadsheet-backed inventory count service",
	Long: `Serves login, inventory views and inventory count submission on top of
a spreadsheet holding the AUTH, 재고, 재고조사 and 재고로그 sheets.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *logger.Logger {
	return logger.New(logger.Options{
		ServiceName: "inventory-api",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
}
