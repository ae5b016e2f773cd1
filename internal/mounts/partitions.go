package mounts

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/EmuxEvans/mbed-ls/internal/tooling"
)

// PartitionSource builds the table on Linux: every block device under
// /sys/class/block, overlaid with the mounted partitions gopsutil reports.
type PartitionSource struct {
	SysfsRoot string

	// Partitions defaults to disk.PartitionsWithContext
	Partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
}

// MountTable lists block devices and their mount points
func (s *PartitionSource) MountTable(ctx context.Context) (Table, error) {
	root := s.SysfsRoot
	if root == "" {
		root = "/sys"
	}
	list := s.Partitions
	if list == nil {
		list = disk.PartitionsWithContext
	}

	entries, err := os.ReadDir(filepath.Join(root, "class", "block"))
	if err != nil {
		return nil, tooling.Unavailable("sysfs block", err)
	}

	table := make(Table, len(entries))
	for _, entry := range entries {
		table[entry.Name()] = nil
	}

	parts, err := list(ctx, true)
	if err != nil {
		return nil, tooling.Unavailable("partitions", err)
	}
	for _, p := range parts {
		if !strings.HasPrefix(p.Device, "/dev/") {
			continue
		}
		name := strings.TrimPrefix(p.Device, "/dev/")
		// Keep the first mount when a device is mounted more than once
		if table[name] != nil {
			continue
		}
		table[name] = ptr(p.Mountpoint)
	}
	return table, nil
}
