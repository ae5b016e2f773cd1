// Package mounts builds the disk identifier to mount point table.
package mounts

import (
	"context"
	"fmt"
	"runtime"
)

// Table maps every disk identifier seen to its mount path, or nil when the
// disk or partition exists but is not mounted.
type Table map[string]*string

// MountPoint returns the mount path for id, or nil if unknown or unmounted
func (t Table) MountPoint(id string) *string {
	return t[id]
}

// Source produces a mount table from the OS disk listing
type Source interface {
	MountTable(ctx context.Context) (Table, error)
}

// ForOS returns the mount table source for goos. sysfsRoot is only used on
// Linux.
func ForOS(goos, sysfsRoot string) (Source, error) {
	switch goos {
	case "darwin":
		return &DiskutilSource{}, nil
	case "linux":
		return &PartitionSource{SysfsRoot: sysfsRoot}, nil
	default:
		return nil, fmt.Errorf("no disk listing support for %s", goos)
	}
}

// Native returns the mount table source for the running OS
func Native(sysfsRoot string) (Source, error) {
	return ForOS(runtime.GOOS, sysfsRoot)
}

// ptr is a helper to create a pointer to a string
func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
