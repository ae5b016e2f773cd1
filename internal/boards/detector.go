package boards

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/EmuxEvans/mbed-ls/internal/mounts"
	"github.com/EmuxEvans/mbed-ls/internal/platforms"
	"github.com/EmuxEvans/mbed-ls/internal/registry"
)

// Options wires the collaborators of a Detector
type Options struct {
	Registry   registry.Source
	DiskPrefix string
	Mounts     mounts.Source
	Metadata   MetadataReader
	Platforms  PlatformResolver
	Logger     zerolog.Logger
}

// Detector correlates the USB registry with the mount table to find boards.
// It holds no state between calls to Enumerate.
type Detector struct {
	registry  registry.Source
	walker    *registry.Walker
	mounts    mounts.Source
	metadata  MetadataReader
	platforms PlatformResolver
	log       zerolog.Logger
}

// NewDetector creates a detector from opts
func NewDetector(opts Options) *Detector {
	return &Detector{
		registry:  opts.Registry,
		walker:    registry.NewWalker(opts.DiskPrefix),
		mounts:    opts.Mounts,
		metadata:  opts.Metadata,
		platforms: opts.Platforms,
		log:       opts.Logger,
	}
}

// Enumerate lists every mbed board attached to the host. It returns either
// the complete list or an error; never both.
func (d *Detector) Enumerate(ctx context.Context) ([]Board, error) {
	roots, err := d.registry.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("usb registry: %w", err)
	}
	identities := d.walker.Walk(roots)

	table, err := d.mounts.MountTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("mount table: %w", err)
	}

	result := d.join(identities, table)
	d.backfillTargetIDs(result)
	d.backfillPlatformNames(result)
	return result, nil
}

// join builds one board per matched disk identifier. Mount table entries
// without a registry match are not boards and are dropped.
func (d *Detector) join(identities map[string]*registry.Identity, table mounts.Table) []Board {
	disks := make([]string, 0, len(identities))
	for disk := range identities {
		disks = append(disks, disk)
	}
	sort.Strings(disks)

	result := make([]Board, 0, len(disks))
	for _, disk := range disks {
		ident := identities[disk]
		b := Board{
			MountPoint: table.MountPoint(disk),
			SerialPort: ident.TTY,
			TargetID:   ident.Serial,
		}
		if b.TargetID != nil {
			b.PlatformName = d.resolve(*b.TargetID)
		}
		if b.MountPoint == nil {
			d.log.Debug().Str("disk", disk).Msg("volume not mounted")
		}
		result = append(result, b)
	}
	return result
}

// backfillTargetIDs reads on-volume metadata for mounted boards that have
// no target id
func (d *Detector) backfillTargetIDs(result []Board) {
	if d.metadata == nil {
		return
	}
	for i := range result {
		b := &result[i]
		if b.MountPoint == nil || b.TargetID != nil {
			continue
		}
		b.TargetID = d.metadata.TargetID(*b.MountPoint)
		if b.TargetID == nil {
			d.log.Debug().Str("mount_point", *b.MountPoint).Msg("no target id in volume metadata")
		}
	}
}

// backfillPlatformNames resolves platform names from the first four
// characters of each target id
func (d *Detector) backfillPlatformNames(result []Board) {
	for i := range result {
		b := &result[i]
		if b.TargetID == nil || b.PlatformName != nil {
			continue
		}
		prefix := platforms.Prefix(*b.TargetID)
		b.PlatformName = d.resolve(prefix)
		if b.PlatformName == nil {
			d.log.Debug().Str("target_id", *b.TargetID).Str("prefix", prefix).Msg("unknown platform")
		}
	}
}

func (d *Detector) resolve(key string) *string {
	if d.platforms == nil {
		return nil
	}
	return d.platforms.Resolve(key)
}
