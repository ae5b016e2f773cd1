package registry

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/EmuxEvans/mbed-ls/internal/tooling"
)

// DefaultSysfsRoot is where the kernel exposes the device model
const DefaultSysfsRoot = "/sys"

// sysfsSkip lists attribute directories that never contain USB devices,
// disks or ttys
var sysfsSkip = map[string]bool{
	"power":     true,
	"queue":     true,
	"mq":        true,
	"trace":     true,
	"integrity": true,
	"holders":   true,
	"slaves":    true,
	"ep_00":     true,
}

// SysfsSource builds the USB registry from /sys/bus/usb/devices on Linux.
// Real directories become nodes; symlinks are not followed so every device
// appears exactly once.
type SysfsSource struct {
	Root string
}

// Registry returns one tree per USB root hub (usb1, usb2, ...)
func (s *SysfsSource) Registry(ctx context.Context) ([]*Node, error) {
	root := s.Root
	if root == "" {
		root = DefaultSysfsRoot
	}

	busDir := filepath.Join(root, "bus", "usb", "devices")
	entries, err := os.ReadDir(busDir)
	if err != nil {
		return nil, tooling.Unavailable("sysfs", err)
	}

	var roots []*Node
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(entry.Name(), "usb") {
			continue
		}
		hub, err := filepath.EvalSymlinks(filepath.Join(busDir, entry.Name()))
		if err != nil {
			continue
		}
		roots = append(roots, buildSysfsNode(hub, "", nil))
	}
	return roots, nil
}

// buildSysfsNode reads the attributes of dir and descends into its real
// subdirectories. parentName is the base name of the directory containing
// dir; diskName is the entry name inherited by partitions.
func buildSysfsNode(dir, parentName string, diskName *string) *Node {
	name := filepath.Base(dir)
	node := &Node{
		SerialNumber: readAttr(dir, "serial"),
		VendorID:     readHexAttr(dir, "idVendor"),
		ProductID:    readHexAttr(dir, "idProduct"),
	}

	switch {
	case parentName == "block":
		node.DiskIdentifier = ptr(name)
		node.EntryName = scsiModelName(dir)
		diskName = node.EntryName
	case fileExists(filepath.Join(dir, "partition")):
		node.DiskIdentifier = ptr(name)
		node.EntryName = diskName
	case parentName == "tty":
		node.DialinDevice = ptr("/dev/" + name)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return node
	}
	for _, entry := range entries {
		// DirEntry reports symlinks as non-directories
		if !entry.IsDir() || sysfsSkip[entry.Name()] {
			continue
		}
		child := buildSysfsNode(filepath.Join(dir, entry.Name()), name, diskName)
		node.Children = append(node.Children, child)
	}
	return node
}

// scsiModelName joins the SCSI vendor and model of a block device,
// e.g. "MBED VFS"
func scsiModelName(blockDir string) *string {
	var parts []string
	for _, attr := range []string{"vendor", "model"} {
		if v := readAttr(filepath.Join(blockDir, "device"), attr); v != nil {
			parts = append(parts, *v)
		}
	}
	return ptr(strings.Join(parts, " "))
}

// readAttr returns the trimmed content of a sysfs attribute file
func readAttr(dir, attr string) *string {
	data, err := os.ReadFile(filepath.Join(dir, attr))
	if err != nil {
		return nil
	}
	return ptr(strings.TrimSpace(string(data)))
}

// readHexAttr parses attributes such as idVendor ("0d28")
func readHexAttr(dir, attr string) *int {
	v := readAttr(dir, attr)
	if v == nil {
		return nil
	}
	n, err := strconv.ParseUint(*v, 16, 32)
	if err != nil {
		return nil
	}
	return ptrInt(int(n))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
