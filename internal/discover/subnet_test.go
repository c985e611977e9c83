package discover

import (
	"testing"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
)

func TestPrefixFromIP(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		want string
	}{
		{"typical lan address", "192.168.1.23", "192.168.1"},
		{"ten network", "10.0.0.5", "10.0.0"},
		{"empty string", "", ""},
		{"not an ip", "hostname.local", ""},
		{"ipv6", "fe80::1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrefixFromIP(tt.ip))
		})
	}
}

func TestMDNSHostnameFromEntry(t *testing.T) {
	// Exercised via the exported strategy in mdns.go; the helper itself
	// is covered here through representative avahi-style records.
	tests := []struct {
		name     string
		hostName string
		instance string
		want     string
	}{
		{"plain local hostname", "living-room.local.", "", "living-room"},
		{"no trailing dot", "bedroom.local", "", "bedroom"},
		{"falls back to instance", "", "kitchen [aa:bb:cc:dd:ee:ff]", "kitchen"},
		{"instance without mac", "", "office", "office"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := zeroconf.NewServiceEntry(tt.instance, "_workstation._tcp", "local.")
			entry.HostName = tt.hostName
			assert.Equal(t, tt.want, hostnameFromEntry(entry))
		})
	}
}
