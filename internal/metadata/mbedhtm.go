// Package metadata reads the target id an mbed interface chip publishes on
// its mass storage volume.
package metadata

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// FileName is the redirect page written to the root of every mbed volume
const FileName = "MBED.HTM"

// The page redirects to e.g. http://mbed.org/device/?code=0240020152986E5EAF6693E6
var (
	codePattern = regexp.MustCompile(`\?code=([\d\w]+)`)
	authPattern = regexp.MustCompile(`\?auth=([\d\w]+)`)
)

// Reader extracts target ids from MBED.HTM
type Reader struct{}

// TargetID returns the target id found in MBED.HTM under mountPoint, or nil
// when the file is missing or holds no id.
func (Reader) TargetID(mountPoint string) *string {
	path := findFile(mountPoint)
	if path == "" {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if id := parseLine(scanner.Text()); id != "" {
			return &id
		}
	}
	return nil
}

// findFile locates MBED.HTM regardless of how the volume cased its name
func findFile(mountPoint string) string {
	entries, err := os.ReadDir(mountPoint)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.EqualFold(entry.Name(), FileName) {
			return filepath.Join(mountPoint, entry.Name())
		}
	}
	return ""
}

// parseLine returns the code= id, falling back to auth=
func parseLine(line string) string {
	if m := codePattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	if m := authPattern.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}
