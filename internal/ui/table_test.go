package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"skinsync/internal/device"
)

func TestRenderDeviceTable(t *testing.T) {
	devices := []device.Device{
		device.New("192.168.1.10", "living-room", device.SourceMDNS),
		device.New("192.168.1.20", "", device.SourceSweep),
	}

	out := RenderDeviceTable(devices)

	assert.Contains(t, out, "living-room")
	assert.Contains(t, out, "192.168.1.10")
	assert.Contains(t, out, "192.168.1.20")
	assert.Contains(t, out, "ADDRESS")
}

func TestRenderDeviceTableEmpty(t *testing.T) {
	assert.Equal(t, "No devices paired", RenderDeviceTable(nil))
}

func TestFormatLastSeen(t *testing.T) {
	assert.Equal(t, "never", formatLastSeen(time.Time{}))
	assert.Equal(t, "just now", formatLastSeen(time.Now()))

	yesterday := time.Date(2026, 8, 24, 9, 15, 0, 0, time.Local)
	if time.Since(yesterday) >= 24*time.Hour {
		assert.Equal(t, "2026-08-24 09:15", formatLastSeen(yesterday))
	}
}
