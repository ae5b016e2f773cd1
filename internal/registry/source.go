package registry

import (
	"fmt"
	"runtime"
)

// Options configures the registry backend
type Options struct {
	Controller string // macOS host controller class
	SysfsRoot  string // Linux sysfs mount point
}

// ForOS returns the registry source and disk prefix for goos
func ForOS(goos string, opts Options) (Source, string, error) {
	switch goos {
	case "darwin":
		return &IORegSource{Controller: opts.Controller}, DarwinDiskPrefix, nil
	case "linux":
		return &SysfsSource{Root: opts.SysfsRoot}, LinuxDiskPrefix, nil
	default:
		return nil, "", fmt.Errorf("no USB registry support for %s", goos)
	}
}

// Native returns the registry source for the running OS
func Native(opts Options) (Source, string, error) {
	return ForOS(runtime.GOOS, opts)
}
