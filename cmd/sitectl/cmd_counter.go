package main

import (
	"context"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"hemkey/internal/counter"
	"hemkey/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var exportOut string

// counterCmd groups the visitor counter commands
var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Inspect the visitor counter",
	Long: `Run visitor counter operations against the configured backend.

The backend is chosen the same way the server chooses it: remote REST
key-value store, Redis, Postgres, then the local file.`,
}

var counterGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current visitor count",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store counter.Store) error {
			n, err := store.Read(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d (%s)\n", n, store.Backend())
			return nil
		})
	},
}

var counterIncrCmd = &cobra.Command{
	Use:   "incr",
	Short: "Register one visit and print the new count",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store counter.Store) error {
			n, err := store.Increment(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d (%s)\n", n, store.Backend())
			return nil
		})
	},
}

var counterExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the current count as a counter file record",
	Long: `Read the current count and print it in the layout of the local counter
file, ready to seed data/visitor-counter.json on another host.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store counter.Store) error {
			n, err := store.Read(ctx)
			if err != nil {
				return err
			}
			record := models.CounterRecord{Count: n, LastUpdated: time.Now().UTC()}
			b, err := json.MarshalIndent(record, "", "  ")
			if err != nil {
				return fmt.Errorf("json marshal: %w", err)
			}
			b = append(b, '\n')

			if exportOut == "" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(exportOut, b, 0o644); err != nil {
				return fmt.Errorf("write file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote count %d to %s\n", n, exportOut)
			return nil
		})
	},
}

func init() {
	counterExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write the record to this file instead of stdout")

	counterCmd.AddCommand(counterGetCmd)
	counterCmd.AddCommand(counterIncrCmd)
	counterCmd.AddCommand(counterExportCmd)
}

func withStore(parent context.Context, fn func(context.Context, counter.Store) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, cfg.CounterTimeout+5*time.Second)
	defer cancel()

	store, err := counter.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open counter: %w", err)
	}
	defer store.Close()

	return fn(ctx, store)
}
