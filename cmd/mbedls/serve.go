package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/EmuxEvans/mbed-ls/internal/inventory"
	"github.com/EmuxEvans/mbed-ls/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve board enumeration over HTTP",
	Long: `Run an HTTP API exposing the attached boards.

Endpoints:
  GET  /api/health
  GET  /api/boards              (?refresh=1 bypasses the cache)
  GET  /api/inventory/boards    (?present=1)
  GET  /api/inventory/boards/{target-id}/events
  GET  /api/inventory/events    (?limit=N)
  POST /api/inventory/sync
  GET  /metrics

With --no-inventory the /api/inventory routes are not mounted.`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (overrides server.listen)")
	serveCmd.Flags().Bool("no-inventory", false, "Do not open the inventory database")
}

func runServe(cmd *cobra.Command, args []string) {
	listen, _ := cmd.Flags().GetString("listen")
	noInventory, _ := cmd.Flags().GetBool("no-inventory")
	cfg, log := mustSetup()
	if listen == "" {
		listen = cfg.Server.Listen
	}

	detector, err := newDetector(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var database *inventory.DB
	if !noInventory {
		database = openDB(cfg)
		defer database.Close()
	}

	srv := server.New(server.Options{
		Enumerator:  detector,
		Inventory:   database,
		CacheTTL:    cfg.Server.CacheTTL,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      log,
	})

	if cfg.Server.SyncSchedule != "" && database != nil {
		stop, err := srv.StartSync(cfg.Server.SyncSchedule)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.ListenAndServe(ctx, listen); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
