package boards

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Unknown is printed in place of fields that could not be determined
const Unknown = "unknown"

var tableHeader = []string{"platform_name", "mount_point", "serial_port", "target_id"}

// PrintJSON outputs the boards as a JSON array
func PrintJSON(w io.Writer, list []Board) error {
	if list == nil {
		list = []Board{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}

// PrintTable outputs the boards as an aligned table. The header is omitted
// when simple is set.
func PrintTable(w io.Writer, list []Board, simple bool) {
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		rows = append(rows, []string{
			str(b.PlatformName, Unknown),
			str(b.MountPoint, Unknown),
			str(b.SerialPort, Unknown),
			str(b.TargetID, Unknown),
		})
	}

	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if !simple {
		printRow(w, tableHeader, widths)
		sep := make([]string, len(widths))
		for i, n := range widths {
			sep[i] = strings.Repeat("-", n)
		}
		printRow(w, sep, widths)
	}
	for _, row := range rows {
		printRow(w, row, widths)
	}
}

func printRow(w io.Writer, cells []string, widths []int) {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = fmt.Sprintf("%-*s", widths[i], c)
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(padded, " | "), " "))
}

// PrintQuiet outputs only the mount point of each mounted board
func PrintQuiet(w io.Writer, list []Board) {
	for _, b := range list {
		if b.MountPoint != nil {
			fmt.Fprintln(w, *b.MountPoint)
		}
	}
}
