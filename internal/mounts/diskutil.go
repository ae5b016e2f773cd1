package mounts

import (
	"context"
	"errors"

	"howett.net/plist"

	"github.com/EmuxEvans/mbed-ls/internal/tooling"
)

// DiskutilSource lists disks with `diskutil list -plist` on macOS
type DiskutilSource struct {
	Run tooling.Runner
}

type diskutilDevice struct {
	DeviceIdentifier string           `plist:"DeviceIdentifier"`
	MountPoint       string           `plist:"MountPoint"`
	Partitions       []diskutilDevice `plist:"Partitions"`
}

type diskutilOutput struct {
	AllDisksAndPartitions []diskutilDevice `plist:"AllDisksAndPartitions"`
}

// MountTable runs diskutil and decodes its output
func (s *DiskutilSource) MountTable(ctx context.Context) (Table, error) {
	run := s.Run
	if run == nil {
		run = tooling.Exec
	}
	out, err := run(ctx, "diskutil", "list", "-plist")
	if err != nil {
		return nil, err
	}
	return ParseDiskutil(out)
}

// ParseDiskutil converts `diskutil list -plist` output into a Table.
// Whole disks and their partitions are both included.
func ParseDiskutil(data []byte) (Table, error) {
	var out diskutilOutput
	if _, err := plist.Unmarshal(data, &out); err != nil {
		return nil, tooling.Unavailable("diskutil", err)
	}
	if out.AllDisksAndPartitions == nil {
		return nil, tooling.Unavailable("diskutil", errors.New("missing AllDisksAndPartitions"))
	}

	table := make(Table)
	for _, disk := range out.AllDisksAndPartitions {
		addDiskutilDevice(table, disk)
	}
	return table, nil
}

func addDiskutilDevice(table Table, dev diskutilDevice) {
	if dev.DeviceIdentifier != "" {
		table[dev.DeviceIdentifier] = ptr(dev.MountPoint)
	}
	for _, part := range dev.Partitions {
		addDiskutilDevice(table, part)
	}
}
