package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"skinsync/internal/errors"
)

const (
	// ConfigDirName is the directory under ~/.config holding skinsync state.
	ConfigDirName = "skinsync"
	// ConfigFileName is the config file name.
	ConfigFileName = "config.yaml"
	// DevicesFileName is the paired-device list file name.
	DevicesFileName = "devices.json"
)

// Dir returns the skinsync config directory (~/.config/skinsync).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return filepath.Join(home, ".config", ConfigDirName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// DevicesPath returns the paired-device list path next to the config file.
// When an explicit config path is in use, the device list lives beside it.
func DevicesPath(configPath string) string {
	if configPath == "" {
		return filepath.Join(Dir(), DevicesFileName)
	}
	return filepath.Join(filepath.Dir(configPath), DevicesFileName)
}

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'skinsync init' to create one, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file:
// 1. Explicit path (from --config flag)
// 2. ~/.config/skinsync/config.yaml
//
// Returns the path, or empty string if no config exists yet.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	path := DefaultPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return "", nil
}

// LoadOrDefault loads config from the given path (or the default location),
// falling back to defaults when no config file exists. Commands like
// 'skinsync init' and 'skinsync scan' should work without prior setup.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults configures viper fallbacks so a sparse config file still
// yields a complete Config.
func setDefaults(v *viper.Viper) {
	v.SetDefault("ssh.user", "root")
	v.SetDefault("ssh.port", 22)
	v.SetDefault("ssh.probe_timeout", "5s")
	v.SetDefault("scan.timeout", "4s")
	v.SetDefault("scan.host_timeout", "500ms")
	v.SetDefault("scan.workers", 50)
	v.SetDefault("kodi.home", "/storage/.kodi")
	v.SetDefault("backup.enabled", true)
	v.SetDefault("backup.dir", "/storage/backup/skinsync")
	v.SetDefault("backup.keep", 5)
	v.SetDefault("restart.enabled", true)
	v.SetDefault("restart.command", "systemctl restart kodi")
}

// Validate checks a loaded config for values that would break later steps.
func Validate(cfg *Config) error {
	if cfg.SSH.User == "" {
		return errors.New(errors.ErrConfig,
			"ssh.user cannot be empty",
			"Set ssh.user (CoreELEC default is root)")
	}
	if cfg.SSH.Port <= 0 || cfg.SSH.Port > 65535 {
		return errors.New(errors.ErrConfig,
			"ssh.port is out of range",
			"Use a port between 1 and 65535 (default 22)")
	}
	if cfg.Scan.Workers <= 0 {
		return errors.New(errors.ErrConfig,
			"scan.workers must be positive",
			"Use the default of 50 unless the network needs throttling")
	}
	if cfg.Kodi.Home == "" {
		return errors.New(errors.ErrConfig,
			"kodi.home cannot be empty",
			"Set kodi.home (/storage/.kodi on CoreELEC)")
	}
	if len(cfg.Categories) == 0 {
		return errors.New(errors.ErrConfig,
			"No sync categories configured",
			"Define at least one entry under categories")
	}
	for name, cat := range cfg.Categories {
		if len(cat.Paths) == 0 {
			return errors.New(errors.ErrConfig,
				"Category '"+name+"' has no paths",
				"Each category needs at least one path relative to kodi.home")
		}
	}
	return nil
}
