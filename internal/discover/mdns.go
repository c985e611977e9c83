package discover

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"skinsync/internal/device"
	"skinsync/internal/logger"
)

// Service types CoreELEC advertises out of the box: SSH/SFTP from the
// OpenSSH service, workstation from avahi.
var mdnsServices = []string{
	"_sftp-ssh._tcp",
	"_workstation._tcp",
}

// MDNS browses for service advertisements on the local multicast domain.
type MDNS struct {
	timeout  time.Duration
	services []string
	log      logger.Logger

	// newResolver is swappable for tests.
	newResolver func() (mdnsResolver, error)
}

// mdnsResolver is the subset of zeroconf.Resolver we use.
type mdnsResolver interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// NewMDNS creates the mDNS browse strategy.
func NewMDNS(timeout time.Duration, log logger.Logger) *MDNS {
	if log == nil {
		log = logger.Noop()
	}
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &MDNS{
		timeout:  timeout,
		services: mdnsServices,
		log:      log,
		newResolver: func() (mdnsResolver, error) {
			return zeroconf.NewResolver(nil)
		},
	}
}

// Name implements Strategy.
func (m *MDNS) Name() string { return "mdns" }

// Discover browses each service type for the configured timeout and
// converts responders into devices. Responders without an IPv4 address are
// skipped.
func (m *MDNS) Discover(ctx context.Context) ([]device.Device, error) {
	resolver, err := m.newResolver()
	if err != nil {
		return nil, err
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var (
		mu    sync.Mutex
		found []device.Device
	)

	var wg sync.WaitGroup
	for _, service := range m.services {
		entries := make(chan *zeroconf.ServiceEntry)

		wg.Add(1)
		go func(results <-chan *zeroconf.ServiceEntry) {
			defer wg.Done()
			for entry := range results {
				dev, ok := deviceFromEntry(entry)
				if !ok {
					continue
				}
				mu.Lock()
				found = append(found, dev)
				mu.Unlock()
			}
		}(entries)

		if err := resolver.Browse(ctx, service, "local.", entries); err != nil {
			m.log.Debug("mdns browse %s failed: %v", service, err)
			// Browse errors close the entries channel; the drain
			// goroutine exits on its own.
		}
	}

	<-ctx.Done()
	wg.Wait()

	return found, nil
}

// deviceFromEntry converts a service entry into a Device.
func deviceFromEntry(entry *zeroconf.ServiceEntry) (device.Device, bool) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return device.Device{}, false
	}

	addr := entry.AddrIPv4[0].String()
	host := hostnameFromEntry(entry)
	return device.New(addr, host, device.SourceMDNS), true
}

// hostnameFromEntry prefers the advertised hostname, stripped of the
// .local. suffix, falling back to the service instance name.
func hostnameFromEntry(entry *zeroconf.ServiceEntry) string {
	host := strings.TrimSuffix(entry.HostName, ".")
	host = strings.TrimSuffix(host, ".local")
	if host != "" {
		return host
	}

	name := entry.Instance
	// Avahi workstation entries look like "hostname [aa:bb:cc:dd:ee:ff]".
	if idx := strings.Index(name, " ["); idx != -1 {
		name = name[:idx]
	}
	return name
}
