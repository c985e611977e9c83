// Package device defines the peer device model and the persisted
// paired-device list.
package device

import (
	"time"
)

// Source records which mechanism produced a device entry.
type Source string

const (
	SourceMDNS   Source = "mdns"
	SourceSweep  Source = "sweep"
	SourceManual Source = "manual"
)

// Device is a peer CoreELEC box on the local network.
// ID is the dedup key: the hostname when discovery learned one, otherwise
// the IP address string.
type Device struct {
	ID       string    `json:"id"`
	Address  string    `json:"address"`
	Hostname string    `json:"hostname,omitempty"`
	LastSeen time.Time `json:"last_seen"`
	Source   Source    `json:"source,omitempty"`
}

// New builds a Device, deriving ID from hostname or address.
func New(address, hostname string, source Source) Device {
	id := hostname
	if id == "" {
		id = address
	}
	return Device{
		ID:       id,
		Address:  address,
		Hostname: hostname,
		LastSeen: time.Now(),
		Source:   source,
	}
}

// Label returns a display string: "hostname (address)" when a hostname is
// known, otherwise just the address.
func (d Device) Label() string {
	if d.Hostname != "" && d.Hostname != d.Address {
		return d.Hostname + " (" + d.Address + ")"
	}
	return d.Address
}
