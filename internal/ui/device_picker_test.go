package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsync/internal/device"
	"skinsync/internal/errors"
)

func TestDeviceItemDisplay(t *testing.T) {
	named := deviceItem{dev: device.New("192.168.1.10", "living-room", device.SourceMDNS)}
	assert.Equal(t, "living-room", named.Title())
	assert.Contains(t, named.Description(), "192.168.1.10")
	assert.Contains(t, named.Description(), "via mdns")

	bare := deviceItem{dev: device.New("192.168.1.20", "", device.SourceSweep)}
	assert.Equal(t, "192.168.1.20", bare.Title())
}

func TestDeviceItemFilterValue(t *testing.T) {
	item := deviceItem{dev: device.New("192.168.1.10", "living-room", device.SourceMDNS)}
	fv := item.FilterValue()
	assert.Contains(t, fv, "living-room")
	assert.Contains(t, fv, "192.168.1.10")
}

func TestPickDeviceEmpty(t *testing.T) {
	_, err := PickDeviceWithOutput(nil, &bytes.Buffer{}, strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrDiscover))
}

func TestPickDeviceSingleSkipsUI(t *testing.T) {
	devices := []device.Device{device.New("192.168.1.10", "living-room", device.SourceMDNS)}

	picked, err := PickDeviceWithOutput(devices, &bytes.Buffer{}, strings.NewReader(""))
	require.NoError(t, err)
	require.NotNil(t, picked)
	assert.Equal(t, "192.168.1.10", picked.Address)
}

func TestIsTerminalRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))
}

func TestDevicePickerModelSelection(t *testing.T) {
	devices := []device.Device{
		device.New("192.168.1.10", "living-room", device.SourceMDNS),
		device.New("192.168.1.20", "bedroom", device.SourceMDNS),
	}

	m := NewDevicePickerModel(devices)
	assert.Nil(t, m.Selected())
	assert.NotEmpty(t, m.View())
}
