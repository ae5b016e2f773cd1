package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EmuxEvans/mbed-ls/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mbedls version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mbedls", version.Version)
	},
}
