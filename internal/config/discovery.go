package config

// Registry backends
const (
	BackendAuto  = "auto"
	BackendIOReg = "ioreg"
	BackendSysfs = "sysfs"
)

// BackendOS maps the configured backend to the OS name whose registry and
// disk listing it uses. "auto" picks the running OS.
func (c *Config) BackendOS(goos string) string {
	switch c.Registry.Backend {
	case BackendIOReg:
		return "darwin"
	case BackendSysfs:
		return "linux"
	default:
		return goos
	}
}
