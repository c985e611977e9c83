package discover

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"skinsync/internal/device"
	"skinsync/internal/errors"
	"skinsync/internal/logger"
)

// SweepOptions configures the TCP-connect sweep.
type SweepOptions struct {
	// Prefix is the first three octets of the /24 to sweep
	// (e.g., "192.168.1"). Empty means detect from the local interface.
	Prefix string

	// Port is the TCP port probed on each host.
	Port int

	// HostTimeout is the per-host connect timeout.
	HostTimeout time.Duration

	// Workers bounds concurrent connection attempts.
	Workers int

	// dial is swappable for tests.
	dial func(network, addr string, timeout time.Duration) (net.Conn, error)
}

// Sweep probes every host in a /24 for an open SSH port.
// Hosts that answer become devices without hostnames; the local machine's
// own address is skipped.
type Sweep struct {
	opts SweepOptions
	log  logger.Logger
}

// NewSweep creates the sweep strategy.
func NewSweep(opts SweepOptions, log logger.Logger) *Sweep {
	if log == nil {
		log = logger.Noop()
	}
	if opts.Port == 0 {
		opts.Port = 22
	}
	if opts.HostTimeout <= 0 {
		opts.HostTimeout = 500 * time.Millisecond
	}
	if opts.Workers <= 0 {
		opts.Workers = 50
	}
	if opts.dial == nil {
		opts.dial = net.DialTimeout
	}
	return &Sweep{opts: opts, log: log}
}

// Name implements Strategy.
func (s *Sweep) Name() string { return "sweep" }

// Discover probes hosts .1 through .254 of the target /24 through a bounded
// worker pool. Connection failures are expected and silent; only the inability
// to determine the subnet is an error.
func (s *Sweep) Discover(ctx context.Context) ([]device.Device, error) {
	prefix := s.opts.Prefix
	localIP := LocalIP()
	if prefix == "" {
		prefix = PrefixFromIP(localIP)
		if prefix == "" {
			return nil, errors.New(errors.ErrDiscover,
				"Could not determine the local network prefix",
				"Set scan.network_prefix in the config (e.g., 192.168.1)")
		}
	}

	s.log.Debug("sweeping %s.0/24 on port %d (local: %s)", prefix, s.opts.Port, localIP)

	jobs := make(chan string)
	results := make(chan device.Device, s.opts.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ip := range jobs {
				if s.probe(ip) {
					results <- device.New(ip, "", device.SourceSweep)
				}
			}
		}()
	}

	go func() {
	feed:
		for i := 1; i < 255; i++ {
			ip := fmt.Sprintf("%s.%d", prefix, i)
			if ip == localIP {
				continue
			}
			select {
			case jobs <- ip:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var found []device.Device
	for dev := range results {
		found = append(found, dev)
	}
	return found, nil
}

// probe attempts a TCP connect to the SSH port.
func (s *Sweep) probe(ip string) bool {
	addr := net.JoinHostPort(ip, fmt.Sprintf("%d", s.opts.Port))
	conn, err := s.opts.dial("tcp", addr, s.opts.HostTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
