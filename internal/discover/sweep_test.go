package discover

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsync/internal/logger"
)

// fakeConn satisfies net.Conn for the dialer stub; only Close is ever called.
type fakeConn struct{ net.Conn }

func (fakeConn) Close() error { return nil }

func TestSweepFindsOpenPorts(t *testing.T) {
	open := map[string]bool{
		"192.168.9.10:22": true,
		"192.168.9.42:22": true,
	}

	var mu sync.Mutex
	dialed := 0

	s := NewSweep(SweepOptions{
		Prefix:      "192.168.9",
		Port:        22,
		HostTimeout: 10 * time.Millisecond,
		Workers:     20,
		dial: func(network, addr string, timeout time.Duration) (net.Conn, error) {
			mu.Lock()
			dialed++
			mu.Unlock()
			if open[addr] {
				return fakeConn{}, nil
			}
			return nil, fmt.Errorf("dial tcp %s: connection refused", addr)
		},
	}, logger.Noop())

	found, err := s.Discover(context.Background())
	require.NoError(t, err)

	addrs := make([]string, len(found))
	for i, d := range found {
		addrs[i] = d.Address
	}
	assert.ElementsMatch(t, []string{"192.168.9.10", "192.168.9.42"}, addrs)

	mu.Lock()
	defer mu.Unlock()
	// .1 through .254, minus any skipped local address
	assert.GreaterOrEqual(t, dialed, 250)
}

func TestSweepDevicesHaveNoHostname(t *testing.T) {
	s := NewSweep(SweepOptions{
		Prefix:      "10.0.0",
		HostTimeout: time.Millisecond,
		Workers:     10,
		dial: func(network, addr string, timeout time.Duration) (net.Conn, error) {
			if addr == "10.0.0.5:22" {
				return fakeConn{}, nil
			}
			return nil, fmt.Errorf("refused")
		},
	}, logger.Noop())

	found, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)

	assert.Equal(t, "10.0.0.5", found[0].Address)
	assert.Empty(t, found[0].Hostname)
	// Without a hostname the address is the identifier
	assert.Equal(t, "10.0.0.5", found[0].ID)
}

func TestSweepStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	dialed := 0

	s := NewSweep(SweepOptions{
		Prefix:      "10.0.0",
		HostTimeout: time.Millisecond,
		Workers:     1,
		dial: func(network, addr string, timeout time.Duration) (net.Conn, error) {
			mu.Lock()
			dialed++
			n := dialed
			mu.Unlock()
			if n == 5 {
				cancel()
			}
			return nil, fmt.Errorf("refused")
		},
	}, logger.Noop())

	_, err := s.Discover(ctx)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Less(t, dialed, 254, "cancel should stop the sweep early")
}

func TestSweepNoPrefixAndNoLocalIPErrors(t *testing.T) {
	// Force the error path by making both the prefix and the derived
	// prefix empty. LocalIP can't be stubbed, so only exercise this when
	// the machine genuinely has no usable address; otherwise check that
	// an explicit bogus prefix does not error (dial failures are silent).
	s := NewSweep(SweepOptions{
		Prefix:      "192.0.2",
		HostTimeout: time.Millisecond,
		Workers:     10,
		dial: func(network, addr string, timeout time.Duration) (net.Conn, error) {
			return nil, fmt.Errorf("refused")
		},
	}, logger.Noop())

	found, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSweepDefaults(t *testing.T) {
	s := NewSweep(SweepOptions{}, nil)

	assert.Equal(t, 22, s.opts.Port)
	assert.Equal(t, 500*time.Millisecond, s.opts.HostTimeout)
	assert.Equal(t, 50, s.opts.Workers)
}
