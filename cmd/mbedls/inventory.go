package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/EmuxEvans/mbed-ls/internal/config"
	"github.com/EmuxEvans/mbed-ls/internal/inventory"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage the board inventory database",
	Long: `Manage the persistent board inventory database.

The inventory remembers every board seen by target id, where it was last
mounted, and when it was attached or detached.`,
}

var inventorySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Record the boards attached now",
	Long: `Enumerate attached boards and update the inventory database.

Boards seen for the first time, or seen again after being unplugged, get
an 'attached' event. Boards recorded as present but missing from this scan
get a 'detached' event. Boards without a target id are not recorded.`,
	Run: runInventorySync,
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known boards",
	Run:   runInventoryList,
}

var inventoryShowCmd = &cobra.Command{
	Use:   "show <target-id>",
	Short: "Show a board and its history",
	Args:  cobra.ExactArgs(1),
	Run:   runInventoryShow,
}

var inventoryEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent attach/detach events",
	Run:   runInventoryEvents,
}

func init() {
	inventoryCmd.AddCommand(inventorySyncCmd)
	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryShowCmd)
	inventoryCmd.AddCommand(inventoryEventsCmd)

	inventorySyncCmd.Flags().Bool("json", false, "Output as JSON")
	inventoryListCmd.Flags().Bool("json", false, "Output as JSON")
	inventoryListCmd.Flags().Bool("present", false, "Only boards attached at the last sync")
	inventoryShowCmd.Flags().Int("limit", 20, "Maximum number of events to show")
	inventoryEventsCmd.Flags().Int("limit", 50, "Maximum number of events to show")
	inventoryEventsCmd.Flags().Bool("json", false, "Output as JSON")
}

func openDB(cfg *config.Config) *inventory.DB {
	database, err := inventory.New(cfg.Inventory.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return database
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func runInventorySync(cmd *cobra.Command, args []string) {
	jsonOut, _ := cmd.Flags().GetBool("json")
	cfg, log := mustSetup()

	detector, err := newDetector(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	list, err := detector.Enumerate(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error enumerating boards: %v\n", err)
		os.Exit(1)
	}

	database := openDB(cfg)
	defer database.Close()

	res, err := database.Sync(list)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing inventory: %v\n", err)
		os.Exit(1)
	}

	if jsonOut {
		printJSON(res)
		return
	}

	fmt.Printf("Scan %s: %d board(s) recorded", res.ScanID, res.Recorded)
	if res.Skipped > 0 {
		fmt.Printf(", %d without target id skipped", res.Skipped)
	}
	fmt.Println()
	for _, id := range res.Attached {
		fmt.Printf("  + attached %s\n", id)
	}
	for _, id := range res.Detached {
		fmt.Printf("  - detached %s\n", id)
	}
}

func runInventoryList(cmd *cobra.Command, args []string) {
	jsonOut, _ := cmd.Flags().GetBool("json")
	presentOnly, _ := cmd.Flags().GetBool("present")
	cfg, _ := mustSetup()

	database := openDB(cfg)
	defer database.Close()

	list, err := database.GetAllBoards(presentOnly)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying boards: %v\n", err)
		os.Exit(1)
	}

	if len(list) == 0 {
		fmt.Println("No boards in inventory. Run 'mbedls inventory sync' to populate.")
		return
	}

	if jsonOut {
		printJSON(list)
		return
	}

	fmt.Printf("%-50s %-16s %-8s %-20s %s\n", "TARGET_ID", "PLATFORM", "PRESENT", "LAST SEEN", "MOUNT")
	fmt.Println(strings.Repeat("-", 110))
	for _, b := range list {
		present := "no"
		if b.Present {
			present = "yes"
		}
		fmt.Printf("%-50s %-16s %-8s %-20s %s\n",
			b.TargetID, dash(b.PlatformName), present, humanize.Time(b.LastSeen), dash(b.MountPoint))
	}
}

func runInventoryShow(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	cfg, _ := mustSetup()

	database := openDB(cfg)
	defer database.Close()

	b, err := database.GetBoard(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying board: %v\n", err)
		os.Exit(1)
	}
	if b == nil {
		fmt.Fprintf(os.Stderr, "Not found: %s\n", args[0])
		os.Exit(1)
	}

	fmt.Printf("Target ID:   %s\n", b.TargetID)
	fmt.Printf("Platform:    %s\n", dash(b.PlatformName))
	fmt.Printf("Mount point: %s\n", dash(b.MountPoint))
	fmt.Printf("Serial port: %s\n", dash(b.SerialPort))
	fmt.Printf("Present:     %v\n", b.Present)
	fmt.Printf("First seen:  %s (%s)\n", b.FirstSeen.Local().Format("2006-01-02 15:04:05"), humanize.Time(b.FirstSeen))
	fmt.Printf("Last seen:   %s (%s)\n", b.LastSeen.Local().Format("2006-01-02 15:04:05"), humanize.Time(b.LastSeen))

	events, err := database.GetBoardEvents(b.TargetID, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying events: %v\n", err)
		os.Exit(1)
	}
	if len(events) == 0 {
		return
	}
	fmt.Println("\nHistory:")
	for _, e := range events {
		fmt.Printf("  %-20s %-9s %s\n", humanize.Time(e.Timestamp), e.EventType, dash(e.MountPoint))
	}
}

func runInventoryEvents(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOut, _ := cmd.Flags().GetBool("json")
	cfg, _ := mustSetup()

	database := openDB(cfg)
	defer database.Close()

	events, err := database.GetRecentEvents(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying events: %v\n", err)
		os.Exit(1)
	}

	if jsonOut {
		if events == nil {
			events = []*inventory.BoardEvent{}
		}
		printJSON(events)
		return
	}

	if len(events) == 0 {
		fmt.Println("No events recorded.")
		return
	}

	fmt.Printf("%-20s %-9s %-50s %s\n", "WHEN", "EVENT", "TARGET_ID", "MOUNT")
	for _, e := range events {
		fmt.Printf("%-20s %-9s %-50s %s\n", humanize.Time(e.Timestamp), e.EventType, e.TargetID, dash(e.MountPoint))
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
