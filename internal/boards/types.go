package boards

import "github.com/EmuxEvans/mbed-ls/internal/tooling"

// ErrToolingUnavailable is returned when the USB registry or the disk
// listing cannot be obtained; no boards are returned with it.
var ErrToolingUnavailable = tooling.ErrUnavailable

// Board is one detected mbed board. Fields the host could not determine
// are nil.
type Board struct {
	MountPoint   *string `json:"mount_point"`
	SerialPort   *string `json:"serial_port"`
	TargetID     *string `json:"target_id"`
	PlatformName *string `json:"platform_name"`
}

// MetadataReader reads the target id stored on a mounted board volume.
// It returns nil on any failure.
type MetadataReader interface {
	TargetID(mountPoint string) *string
}

// PlatformResolver maps a target id prefix to a platform name, or nil
type PlatformResolver interface {
	Resolve(prefix string) *string
}

// str returns the value of an optional field, or fallback when absent
func str(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
