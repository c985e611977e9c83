package config

import (
	"sort"
	"time"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete skinsync configuration file.
type Config struct {
	Version    int                 `yaml:"version" mapstructure:"version"`
	SSH        SSHConfig           `yaml:"ssh" mapstructure:"ssh"`
	Scan       ScanConfig          `yaml:"scan" mapstructure:"scan"`
	Kodi       KodiConfig          `yaml:"kodi" mapstructure:"kodi"`
	Categories map[string]Category `yaml:"categories" mapstructure:"categories"`
	Backup     BackupConfig        `yaml:"backup" mapstructure:"backup"`
	Restart    RestartConfig       `yaml:"restart" mapstructure:"restart"`
}

// SSHConfig holds connection settings for talking to peer devices.
type SSHConfig struct {
	// User is the SSH login on peer devices. CoreELEC ships with root.
	User string `yaml:"user" mapstructure:"user"`

	// Port is the SSH port on peer devices.
	Port int `yaml:"port" mapstructure:"port"`

	// ProbeTimeout bounds the full SSH handshake when checking a device.
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`
}

// ScanConfig controls network discovery behavior.
type ScanConfig struct {
	// NetworkPrefix is the first three octets of the local /24
	// (e.g., "192.168.1"). Empty means auto-detect from the local interface.
	NetworkPrefix string `yaml:"network_prefix" mapstructure:"network_prefix"`

	// Timeout bounds a full discovery pass (mDNS browse or sweep).
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// HostTimeout is the per-host TCP connect timeout during the sweep.
	HostTimeout time.Duration `yaml:"host_timeout" mapstructure:"host_timeout"`

	// Workers is the sweep worker pool size.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// KodiConfig locates the Kodi installation on both ends.
type KodiConfig struct {
	// Home is the Kodi data directory. /storage/.kodi on CoreELEC.
	Home string `yaml:"home" mapstructure:"home"`

	// Skin is the active skin's addon id (e.g., "skin.arctic.fuse").
	// Empty means detect from the newest skin.* directory under addon_data.
	Skin string `yaml:"skin" mapstructure:"skin"`
}

// Category names a set of paths synced together.
// Paths are relative to the Kodi home and may reference ${SKIN},
// which expands to the active skin id.
type Category struct {
	Description string   `yaml:"description" mapstructure:"description"`
	Paths       []string `yaml:"paths" mapstructure:"paths"`
}

// BackupConfig controls the pre-sync backup of the destination device.
type BackupConfig struct {
	// Enabled toggles backups before each copy.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Dir is where backup archives are written on the destination device.
	Dir string `yaml:"dir" mapstructure:"dir"`

	// Keep is how many archives to retain; older ones are pruned.
	Keep int `yaml:"keep" mapstructure:"keep"`
}

// RestartConfig controls the post-sync restart of the remote media center.
type RestartConfig struct {
	// Enabled toggles the restart after a successful copy.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Command is the restart command run on the remote device.
	Command string `yaml:"command" mapstructure:"command"`
}

// DefaultConfig returns a Config with sensible defaults for CoreELEC.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		SSH: SSHConfig{
			User:         "root",
			Port:         22,
			ProbeTimeout: 5 * time.Second,
		},
		Scan: ScanConfig{
			Timeout:     4 * time.Second,
			HostTimeout: 500 * time.Millisecond,
			Workers:     50,
		},
		Kodi: KodiConfig{
			Home: "/storage/.kodi",
		},
		Categories: map[string]Category{
			"skin": {
				Description: "Skin settings",
				Paths:       []string{"userdata/addon_data/${SKIN}"},
			},
			"widgets": {
				Description: "Widget and home menu configs",
				Paths: []string{
					"userdata/addon_data/script.skinshortcuts",
					"userdata/addon_data/script.skin.helper.service",
				},
			},
			"keymaps": {
				Description: "Keyboard and remote keymaps",
				Paths:       []string{"userdata/keymaps"},
			},
		},
		Backup: BackupConfig{
			Enabled: true,
			Dir:     "/storage/backup/skinsync",
			Keep:    5,
		},
		Restart: RestartConfig{
			Enabled: true,
			Command: "systemctl restart kodi",
		},
	}
}

// CategoryNames returns the configured category names in a stable order:
// the well-known ones first, then any extras alphabetically.
func (c *Config) CategoryNames() []string {
	known := []string{"skin", "widgets", "keymaps"}
	var names []string
	for _, name := range known {
		if _, ok := c.Categories[name]; ok {
			names = append(names, name)
		}
	}
	var extras []string
	for name := range c.Categories {
		if name != "skin" && name != "widgets" && name != "keymaps" {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}
