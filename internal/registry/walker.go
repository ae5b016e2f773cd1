package registry

import (
	"regexp"
	"strings"
)

// Disk identifier prefixes reported by the supported registries
const (
	DarwinDiskPrefix = "disk"
	LinuxDiskPrefix  = "sd"
)

// mbedNamePattern matches "mbed" as a whole word, case-insensitively
var mbedNamePattern = regexp.MustCompile(`(?i)\bmbed\b`)

// Walker finds mbed volumes in a registry tree and resolves their USB identity
type Walker struct {
	DiskPrefix string

	// visit is called once per node in traversal order (tests only)
	visit func(*Node)
}

// NewWalker creates a walker matching disk identifiers that start with prefix
func NewWalker(prefix string) *Walker {
	return &Walker{DiskPrefix: prefix}
}

// frame is a pending node plus the number of ancestors above it
type frame struct {
	node  *Node
	depth int
}

// Walk traverses every root depth-first and returns the identity of each
// matched disk, keyed by disk identifier.
func (w *Walker) Walk(roots []*Node) map[string]*Identity {
	found := make(map[string]*Identity)

	for _, root := range roots {
		if root == nil {
			continue
		}

		// path holds the current node's ancestors, root first
		var path []*Node
		stack := []frame{{node: root}}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			path = append(path[:f.depth], f.node)
			if w.visit != nil {
				w.visit(f.node)
			}

			if w.matches(f.node) {
				found[*f.node.DiskIdentifier] = resolveIdentity(path)
			}

			// Push in reverse so the first child is visited first
			for i := len(f.node.Children) - 1; i >= 0; i-- {
				if child := f.node.Children[i]; child != nil {
					stack = append(stack, frame{node: child, depth: f.depth + 1})
				}
			}
		}
	}

	return found
}

// matches reports whether n is a disk entry named like an mbed volume
func (w *Walker) matches(n *Node) bool {
	if n.DiskIdentifier == nil || n.EntryName == nil {
		return false
	}
	if !strings.HasPrefix(*n.DiskIdentifier, w.DiskPrefix) {
		return false
	}
	return mbedNamePattern.MatchString(*n.EntryName)
}

// resolveIdentity scans path from the matched node outward and takes every
// field from the first entry that has a serial number.
func resolveIdentity(path []*Node) *Identity {
	anchor := nearestWithSerial(path)
	if anchor == nil {
		return &Identity{}
	}
	return &Identity{
		Serial:    anchor.SerialNumber,
		VendorID:  anchor.VendorID,
		ProductID: anchor.ProductID,
		TTY:       FindTTY(anchor),
	}
}

// nearestWithSerial returns the last node in path carrying a serial number
func nearestWithSerial(path []*Node) *Node {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].SerialNumber != nil {
			return path[i]
		}
	}
	return nil
}

// FindTTY returns the first dial-in device found depth-first in the subtree
// rooted at n, including n itself.
func FindTTY(n *Node) *string {
	if n == nil {
		return nil
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur.DialinDevice != nil {
			return cur.DialinDevice
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			if cur.Children[i] != nil {
				stack = append(stack, cur.Children[i])
			}
		}
	}
	return nil
}
