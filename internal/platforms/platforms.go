// Package platforms maps target identifier prefixes to mbed platform names.
package platforms

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/EmuxEvans/mbed-ls/internal/cache"
)

// PrefixLen is the number of target id characters that select a platform
const PrefixLen = 4

// Table maps a target id prefix to a platform name
type Table map[string]string

// Resolve returns the platform name for key, or nil if it is unknown
func (t Table) Resolve(key string) *string {
	name, ok := t[key]
	if !ok {
		return nil
	}
	return &name
}

// Prefix returns the first four characters of a target id, or the whole id
// when it is shorter
func Prefix(targetID string) string {
	r := []rune(targetID)
	if len(r) <= PrefixLen {
		return targetID
	}
	return string(r[:PrefixLen])
}

// Merge returns a new table holding t overlaid with every table in others,
// later tables winning
func (t Table) Merge(others ...Table) Table {
	merged := make(Table, len(t))
	for k, v := range t {
		merged[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			merged[k] = v
		}
	}
	return merged
}

// Entry is one prefix/name pair
type Entry struct {
	Prefix   string `json:"prefix" yaml:"prefix"`
	Platform string `json:"platform_name" yaml:"platform_name"`
}

// Sorted returns the table as entries ordered by prefix
func (t Table) Sorted() []Entry {
	entries := make([]Entry, 0, len(t))
	for k, v := range t {
		entries = append(entries, Entry{Prefix: k, Platform: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Prefix < entries[j].Prefix
	})
	return entries
}

// LoadFile reads a YAML mapping of prefix to platform name.
// Parsed files are kept in the process cache.
func LoadFile(path string) (Table, error) {
	c := cache.Global()
	cacheKey := "platforms:" + path

	if cached := c.Get(cacheKey); cached != nil {
		return cached.(Table), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform table: %w", err)
	}

	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse platform table %s: %w", path, err)
	}
	if t == nil {
		t = Table{}
	}

	c.SetSlow(cacheKey, t)
	return t, nil
}

// Build assembles the effective table: built-in ids, then the optional file,
// then inline overrides
func Build(file string, overrides map[string]string) (Table, error) {
	t := Default()
	if file != "" {
		fromFile, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		t = t.Merge(fromFile)
	}
	return t.Merge(Table(overrides)), nil
}
