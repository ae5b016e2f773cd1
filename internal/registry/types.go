package registry

import "context"

// Node is one entry in a hierarchical USB device registry.
// Every attribute is optional; a nil pointer means the registry did not
// report it for this entry.
type Node struct {
	DiskIdentifier *string // BSD-style disk name (disk2, disk2s1, sdb, sdb1)
	EntryName      *string // registry entry name, e.g. "MBED VFS Media"
	SerialNumber   *string // USB serial number
	VendorID       *int
	ProductID      *int
	DialinDevice   *string // /dev/tty.usbmodem1422, /dev/ttyACM0
	Children       []*Node
}

// Identity holds the USB attributes attributed to one matched disk.
// All fields come from the same serial-bearing registry entry.
type Identity struct {
	Serial    *string `json:"serial,omitempty"`
	VendorID  *int    `json:"vendor_id,omitempty"`
	ProductID *int    `json:"product_id,omitempty"`
	TTY       *string `json:"tty,omitempty"`
}

// Source produces the registry trees rooted at USB host controllers
type Source interface {
	Registry(ctx context.Context) ([]*Node, error)
}

// ptr is a helper to create a pointer to a string
func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ptrInt is a helper to create a pointer to an int
func ptrInt(i int) *int {
	return &i
}
