package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/EmuxEvans/mbed-ls/internal/platforms"
)

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "Show the target id prefix to platform name table",
	Long: `Print the effective platform table: the built-in manufacturer ids,
overlaid with platforms_file and the inline 'platforms' map from the config.`,
	Run: runPlatforms,
}

func init() {
	platformsCmd.Flags().StringP("output", "o", "table", "Output format: table, json")
}

func runPlatforms(cmd *cobra.Command, args []string) {
	outputFmt, _ := cmd.Flags().GetString("output")
	cfg, _ := mustSetup()

	table, err := platforms.Build(cfg.PlatformsFile, cfg.Platforms)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading platforms: %v\n", err)
		os.Exit(1)
	}
	entries := table.Sorted()

	if outputFmt == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(entries)
		return
	}

	fmt.Printf("%-8s %s\n", "PREFIX", "PLATFORM")
	for _, e := range entries {
		fmt.Printf("%-8s %s\n", e.Prefix, e.Platform)
	}
}
