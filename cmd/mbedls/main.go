package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/EmuxEvans/mbed-ls/internal/boards"
	"github.com/EmuxEvans/mbed-ls/internal/config"
	"github.com/EmuxEvans/mbed-ls/internal/logging"
	"github.com/EmuxEvans/mbed-ls/internal/metadata"
	"github.com/EmuxEvans/mbed-ls/internal/mounts"
	"github.com/EmuxEvans/mbed-ls/internal/platforms"
	"github.com/EmuxEvans/mbed-ls/internal/registry"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mbedls",
	Short: "List mbed boards attached to this host",
	Long: `mbedls detects mbed development boards connected over USB. For each
board it reports the mount point of its mass-storage volume, its serial
port, its target id and the platform name derived from that id.

Running mbedls without a subcommand is the same as 'mbedls list'.`,
	Run: runList,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Enumerate attached boards",
	Run:   runList,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/mbedls/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	for _, cmd := range []*cobra.Command{rootCmd, listCmd} {
		cmd.Flags().StringP("output", "o", "table", "Output format: table, json")
		cmd.Flags().BoolP("quiet", "q", false, "Only output mount points")
		cmd.Flags().BoolP("simple", "s", false, "Table without header")
	}

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runList(cmd *cobra.Command, args []string) {
	outputFmt, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")
	simple, _ := cmd.Flags().GetBool("simple")

	cfg, log := mustSetup()
	detector, err := newDetector(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	list, err := detector.Enumerate(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("enumeration failed")
		if errors.Is(err, boards.ErrToolingUnavailable) {
			fmt.Fprintf(os.Stderr, "Error: system tooling unavailable: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	if quiet {
		boards.PrintQuiet(os.Stdout, list)
		return
	}

	switch outputFmt {
	case "json":
		if err := boards.PrintJSON(os.Stdout, list); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
	case "table":
		boards.PrintTable(os.Stdout, list, simple)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown output format %q\n", outputFmt)
		os.Exit(1)
	}
}

// mustSetup loads the config and builds the logger, exiting on failure
func mustSetup() (*config.Config, zerolog.Logger) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, logging.New(cfg.LogLevel, os.Stderr)
}

// newDetector wires the OS backends selected by cfg into a Detector
func newDetector(cfg *config.Config, log zerolog.Logger) (*boards.Detector, error) {
	goos := cfg.BackendOS(runtime.GOOS)

	reg, prefix, err := registry.ForOS(goos, registry.Options{
		Controller: cfg.Registry.Controller,
		SysfsRoot:  cfg.Registry.SysfsRoot,
	})
	if err != nil {
		return nil, err
	}
	mnt, err := mounts.ForOS(goos, cfg.Registry.SysfsRoot)
	if err != nil {
		return nil, err
	}
	table, err := platforms.Build(cfg.PlatformsFile, cfg.Platforms)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("backend", goos).Str("disk_prefix", prefix).Int("platforms", len(table)).Msg("detector configured")
	return boards.NewDetector(boards.Options{
		Registry:   reg,
		DiskPrefix: prefix,
		Mounts:     mnt,
		Metadata:   metadata.Reader{},
		Platforms:  table,
		Logger:     log,
	}), nil
}
