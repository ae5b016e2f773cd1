package mounts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/EmuxEvans/mbed-ls/internal/tooling"
)

func TestParseDiskutilFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/diskutil_list.plist")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	table, err := ParseDiskutil(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	for _, id := range []string{"disk0", "disk0s1", "disk0s2", "disk2", "disk3"} {
		if _, ok := table[id]; !ok {
			t.Fatalf("%s missing from table", id)
		}
	}
	if mp := table.MountPoint("disk2"); mp == nil || *mp != "/Volumes/MBED" {
		t.Fatalf("disk2 mount = %v", mp)
	}
	if mp := table.MountPoint("disk0s2"); mp == nil || *mp != "/" {
		t.Fatalf("disk0s2 mount = %v", mp)
	}
	if mp := table.MountPoint("disk3"); mp != nil {
		t.Fatalf("disk3 should be unmounted, got %q", *mp)
	}
	if mp := table.MountPoint("disk9"); mp != nil {
		t.Fatalf("unknown disk should have no mount point")
	}
}

func TestParseDiskutilMalformed(t *testing.T) {
	tests := map[string]string{
		"garbage":     "<<< not a plist",
		"wrong shape": `<?xml version="1.0" encoding="UTF-8"?><plist version="1.0"><dict><key>WholeDisks</key><array/></dict></plist>`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseDiskutil([]byte(input)); !errors.Is(err, tooling.ErrUnavailable) {
				t.Fatalf("expected ErrUnavailable, got %v", err)
			}
		})
	}
}

func TestDiskutilSourceFailure(t *testing.T) {
	src := &DiskutilSource{Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, tooling.Unavailable(name, errors.New("exit status 1"))
	}}
	if _, err := src.MountTable(context.Background()); !errors.Is(err, tooling.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestPartitionSource(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"sda", "sda1", "sdb", "loop0"} {
		if err := os.MkdirAll(filepath.Join(root, "class", "block", name), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	src := &PartitionSource{
		SysfsRoot: root,
		Partitions: func(ctx context.Context, all bool) ([]disk.PartitionStat, error) {
			if !all {
				t.Fatalf("expected all partitions to be requested")
			}
			return []disk.PartitionStat{
				{Device: "/dev/sda1", Mountpoint: "/"},
				{Device: "/dev/sdb", Mountpoint: "/media/user/MBED"},
				{Device: "/dev/sdb", Mountpoint: "/mnt/again"},
				{Device: "tmpfs", Mountpoint: "/run"},
			}, nil
		},
	}

	table, err := src.MountTable(context.Background())
	if err != nil {
		t.Fatalf("mount table: %v", err)
	}
	if len(table) != 4 {
		t.Fatalf("expected 4 entries, got %d: %v", len(table), table)
	}
	if mp := table.MountPoint("sdb"); mp == nil || *mp != "/media/user/MBED" {
		t.Fatalf("sdb mount = %v", mp)
	}
	if _, ok := table["sda"]; !ok || table["sda"] != nil {
		t.Fatalf("sda should be present and unmounted")
	}
}

func TestPartitionSourceErrors(t *testing.T) {
	src := &PartitionSource{SysfsRoot: t.TempDir()}
	if _, err := src.MountTable(context.Background()); !errors.Is(err, tooling.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for missing sysfs, got %v", err)
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "class", "block"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	src = &PartitionSource{
		SysfsRoot: root,
		Partitions: func(ctx context.Context, all bool) ([]disk.PartitionStat, error) {
			return nil, errors.New("mountinfo unreadable")
		},
	}
	if _, err := src.MountTable(context.Background()); !errors.Is(err, tooling.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for partition failure, got %v", err)
	}
}

func TestForOS(t *testing.T) {
	src, err := ForOS("linux", "/tmp/sys")
	if err != nil {
		t.Fatalf("linux: %v", err)
	}
	if ps, ok := src.(*PartitionSource); !ok || ps.SysfsRoot != "/tmp/sys" {
		t.Fatalf("linux source = %#v", src)
	}
	if _, err := ForOS("darwin", ""); err != nil {
		t.Fatalf("darwin: %v", err)
	}
	if _, err := ForOS("windows", ""); err == nil {
		t.Fatalf("expected error for unsupported OS")
	}
}
