package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsync/internal/config"
	"skinsync/internal/device"
)

func TestHostSpec(t *testing.T) {
	cfg := config.DefaultConfig()
	dev := device.New("192.168.1.50", "bedroom", device.SourceMDNS)

	assert.Equal(t, "root@192.168.1.50", hostSpec(cfg, &dev))

	cfg.SSH.Port = 2222
	assert.Equal(t, "root@192.168.1.50:2222", hostSpec(cfg, &dev))
}

func TestSSHHostIgnoresPort(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SSH.Port = 2222
	dev := device.New("192.168.1.50", "", device.SourceManual)

	assert.Equal(t, "root@192.168.1.50", sshHost(cfg, &dev))
}

func TestResolveTargetPairedID(t *testing.T) {
	cfg := config.DefaultConfig()
	store := device.NewStore(filepath.Join(t.TempDir(), "devices.json"))
	require.NoError(t, store.AddOrUpdate(device.New("192.168.1.50", "bedroom", device.SourceMDNS)))

	dev, err := resolveTarget(cfg, store, "bedroom", false)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.50", dev.Address)
	assert.Equal(t, "bedroom", dev.Hostname)
}

func TestResolveTargetBareAddress(t *testing.T) {
	cfg := config.DefaultConfig()
	store := device.NewStore(filepath.Join(t.TempDir(), "devices.json"))

	dev, err := resolveTarget(cfg, store, "192.168.1.99", false)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.99", dev.Address)
	assert.Equal(t, device.SourceManual, dev.Source)
}

func TestKodiCheckErrorNamesTheHome(t *testing.T) {
	cfg := config.DefaultConfig()
	dev := device.New("192.168.1.50", "bedroom", device.SourceMDNS)

	err := kodiCheckError(cfg, &dev)
	assert.Contains(t, err.Error(), "/storage/.kodi")
	assert.Contains(t, err.Error(), "bedroom")
}
