package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsync/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "root", cfg.SSH.User)
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Equal(t, "/storage/.kodi", cfg.Kodi.Home)
	assert.Equal(t, 50, cfg.Scan.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.Scan.HostTimeout)
	assert.True(t, cfg.Backup.Enabled)
	assert.Equal(t, "systemctl restart kodi", cfg.Restart.Command)

	// All three well-known categories present with at least one path
	for _, name := range []string{"skin", "widgets", "keymaps"} {
		cat, ok := cfg.Categories[name]
		require.True(t, ok, "category %q missing", name)
		assert.NotEmpty(t, cat.Paths)
	}
}

func TestCategoryNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Categories["favourites"] = Category{Paths: []string{"userdata/favourites.xml"}}
	cfg.Categories["advanced"] = Category{Paths: []string{"userdata/advancedsettings.xml"}}

	names := cfg.CategoryNames()

	// Well-known first in fixed order, extras alphabetical
	assert.Equal(t, []string{"skin", "widgets", "keymaps", "advanced", "favourites"}, names)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `version: 1
ssh:
  user: osmc
  port: 2222
scan:
  network_prefix: "10.0.0"
  timeout: 10s
kodi:
  home: /home/osmc/.kodi
  skin: skin.estuary
categories:
  skin:
    paths:
      - userdata/addon_data/${SKIN}
backup:
  enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "osmc", cfg.SSH.User)
	assert.Equal(t, 2222, cfg.SSH.Port)
	assert.Equal(t, "10.0.0", cfg.Scan.NetworkPrefix)
	assert.Equal(t, 10*time.Second, cfg.Scan.Timeout)
	assert.Equal(t, "/home/osmc/.kodi", cfg.Kodi.Home)
	assert.Equal(t, "skin.estuary", cfg.Kodi.Skin)
	assert.False(t, cfg.Backup.Enabled)

	// Defaults fill gaps the file didn't set
	assert.Equal(t, 500*time.Millisecond, cfg.Scan.HostTimeout)
	assert.Equal(t, "systemctl restart kodi", cfg.Restart.Command)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ssh: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.SSH.User)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty user",
			mutate:  func(c *Config) { c.SSH.User = "" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.SSH.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Scan.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "empty kodi home",
			mutate:  func(c *Config) { c.Kodi.Home = "" },
			wantErr: true,
		},
		{
			name:    "no categories",
			mutate:  func(c *Config) { c.Categories = nil },
			wantErr: true,
		},
		{
			name: "category without paths",
			mutate: func(c *Config) {
				c.Categories["empty"] = Category{}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.SSH.User = "libreelec"
	cfg.Scan.NetworkPrefix = "192.168.4"

	require.NoError(t, Write(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "libreelec", loaded.SSH.User)
	assert.Equal(t, "192.168.4", loaded.Scan.NetworkPrefix)
	assert.Equal(t, cfg.Categories["skin"].Paths, loaded.Categories["skin"].Paths)

	// No leftover tmp file
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestDevicesPath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("/etc/skinsync", "devices.json"),
		DevicesPath("/etc/skinsync/config.yaml"))

	t.Setenv("HOME", "/home/test")
	assert.Contains(t, DevicesPath(""), filepath.Join(".config", "skinsync", "devices.json"))
}
