package registry

import (
	"context"
	"fmt"

	"howett.net/plist"

	"github.com/EmuxEvans/mbed-ls/internal/tooling"
)

// DefaultController is the host controller class queried on macOS
const DefaultController = "AppleUSBXHCI"

// ioreg property keys
const (
	keyBSDName      = "BSD Name"
	keyEntryName    = "IORegistryEntryName"
	keySerial       = "USB Serial Number"
	keySerialString = "kUSBSerialNumberString"
	keyVendor       = "idVendor"
	keyProduct      = "idProduct"
	keyDialin       = "IODialinDevice"
	keyChildren     = "IORegistryEntryChildren"
)

// IORegSource reads the USB registry from `ioreg` on macOS
type IORegSource struct {
	Controller string
	Run        tooling.Runner
}

// Registry runs `ioreg -a -r -n <controller> -l` and decodes the result
func (s *IORegSource) Registry(ctx context.Context) ([]*Node, error) {
	controller := s.Controller
	if controller == "" {
		controller = DefaultController
	}
	run := s.Run
	if run == nil {
		run = tooling.Exec
	}

	out, err := run(ctx, "ioreg", "-a", "-r", "-n", controller, "-l")
	if err != nil {
		return nil, err
	}
	return ParseIOReg(out)
}

// ParseIOReg decodes the plist array printed by `ioreg -a` into node trees
func ParseIOReg(data []byte) ([]*Node, error) {
	// ioreg prints nothing at all when no controller matched
	if len(data) == 0 {
		return nil, nil
	}

	var entries []map[string]interface{}
	if _, err := plist.Unmarshal(data, &entries); err != nil {
		return nil, tooling.Unavailable("ioreg", err)
	}

	roots := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		node, err := convertIORegEntry(entry)
		if err != nil {
			return nil, tooling.Unavailable("ioreg", err)
		}
		roots = append(roots, node)
	}
	return roots, nil
}

// convertIORegEntry converts one property dictionary and its children
func convertIORegEntry(entry map[string]interface{}) (*Node, error) {
	node := &Node{
		DiskIdentifier: stringProp(entry, keyBSDName),
		EntryName:      stringProp(entry, keyEntryName),
		SerialNumber:   stringProp(entry, keySerial),
		VendorID:       intProp(entry, keyVendor),
		ProductID:      intProp(entry, keyProduct),
		DialinDevice:   stringProp(entry, keyDialin),
	}
	if node.SerialNumber == nil {
		node.SerialNumber = stringProp(entry, keySerialString)
	}

	raw, ok := entry[keyChildren]
	if !ok {
		return node, nil
	}
	children, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s is %T, not an array", keyChildren, raw)
	}
	for _, c := range children {
		dict, ok := c.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("registry child is %T, not a dictionary", c)
		}
		child, err := convertIORegEntry(dict)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func stringProp(entry map[string]interface{}, key string) *string {
	if s, ok := entry[key].(string); ok {
		return ptr(s)
	}
	return nil
}

func intProp(entry map[string]interface{}, key string) *int {
	switch v := entry[key].(type) {
	case uint64:
		return ptrInt(int(v))
	case int64:
		return ptrInt(int(v))
	case int:
		return ptrInt(v)
	case float64:
		return ptrInt(int(v))
	}
	return nil
}
