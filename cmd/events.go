/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/harari-inventory/apiserver/config"
	"github.com/harari-inventory/apiserver/internal/mq"
	"github.com/harari-inventory/apiserver/types"
	"github.com/spf13/cobra"
)

// eventsCmd prints count events as they arrive.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Follows inventory count events",
	Long: `Subscribes to the configured events topic and prints each count event
as a JSON line until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		log := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		broker, err := mq.Open(ctx, cfg)
		if err != nil {
			return err
		}
		if broker == nil {
			return errors.New("EVENTS_BACKEND is not configured")
		}
		defer broker.Close()

		enc := json.NewEncoder(cmd.OutOrStdout())
		events := mq.NewCountEvents(broker, cfg.Events.Topic)
		err = events.SubscribeCounts(ctx, func(ctx context.Context, event types.CountEvent) error {
			log.Debug(log.WithField(ctx, "event_id", event.ID), "events.received")
			return enc.Encode(event)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
