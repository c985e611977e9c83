// Package discover finds CoreELEC peers on the local network.
//
// Two strategies are tried in order: an mDNS service browse, then a
// TCP-connect sweep over the local /24. A strategy that errors or finds
// nothing hands over to the next; finding nothing at all is an empty result,
// not an error. Results are deduplicated by address across strategies.
package discover

import (
	"context"
	"sort"
	"time"

	"skinsync/internal/config"
	"skinsync/internal/device"
	"skinsync/internal/logger"
)

// Strategy is one way of producing candidate devices.
// Implementations must respect ctx cancellation and bound their own probes.
type Strategy interface {
	Name() string
	Discover(ctx context.Context) ([]device.Device, error)
}

// Discoverer runs strategies in order until one yields devices.
type Discoverer struct {
	strategies []Strategy
	timeout    time.Duration
	log        logger.Logger
}

// New builds a Discoverer with the standard strategy order:
// mDNS browse first, sweep fallback.
func New(scan config.ScanConfig, sshPort int, log logger.Logger) *Discoverer {
	if log == nil {
		log = logger.Noop()
	}
	return &Discoverer{
		strategies: []Strategy{
			// The browse always runs out its full window, so it only gets
			// half the pass budget; the rest stays available for the sweep
			// when nothing answers multicast.
			NewMDNS(scan.Timeout/2, log),
			NewSweep(SweepOptions{
				Prefix:      scan.NetworkPrefix,
				Port:        sshPort,
				HostTimeout: scan.HostTimeout,
				Workers:     scan.Workers,
			}, log),
		},
		timeout: scan.Timeout,
		log:     log,
	}
}

// NewWithStrategies builds a Discoverer from explicit strategies.
// Exported for tests and for callers that want a single phase.
func NewWithStrategies(timeout time.Duration, log logger.Logger, strategies ...Strategy) *Discoverer {
	if log == nil {
		log = logger.Noop()
	}
	return &Discoverer{strategies: strategies, timeout: timeout, log: log}
}

// Discover runs the strategies and returns deduplicated devices sorted by
// address. An empty result with nil error means nothing answered; the caller
// decides how to report that.
func (d *Discoverer) Discover(ctx context.Context) ([]device.Device, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	seen := make(map[string]bool)
	var found []device.Device

	for _, strat := range d.strategies {
		if ctx.Err() != nil {
			break
		}

		devices, err := strat.Discover(ctx)
		if err != nil {
			// A failing strategy is not fatal: fall through to the next.
			d.log.Warn("%s discovery failed: %v", strat.Name(), err)
			continue
		}

		added := 0
		for _, dev := range devices {
			if dev.Address == "" || seen[dev.Address] {
				continue
			}
			seen[dev.Address] = true
			found = append(found, dev)
			added++
		}
		d.log.Debug("%s discovery found %d device(s), %d new", strat.Name(), len(devices), added)

		// First strategy that produces anything wins; later strategies
		// exist as fallbacks, not supplements.
		if len(found) > 0 {
			break
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Address < found[j].Address })
	return found, nil
}
