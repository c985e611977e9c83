package cli

import (
	"context"
	"fmt"

	"skinsync/internal/config"
	"skinsync/internal/device"
	"skinsync/internal/discover"
	"skinsync/internal/errors"
	"skinsync/internal/logger"
	"skinsync/internal/ui"
)

// openStore opens the paired-device list next to the active config file.
func openStore() *device.Store {
	return device.NewStore(config.DevicesPath(configFlag))
}

// hostSpec builds the SSH target string for a device.
func hostSpec(cfg *config.Config, dev *device.Device) string {
	spec := fmt.Sprintf("%s@%s", cfg.SSH.User, dev.Address)
	if cfg.SSH.Port != 22 {
		spec = fmt.Sprintf("%s:%d", spec, cfg.SSH.Port)
	}
	return spec
}

// sshHost builds the user@address spec rsync and scp use for the remote
// side. Port is fixed at 22 for those tools.
func sshHost(cfg *config.Config, dev *device.Device) string {
	return fmt.Sprintf("%s@%s", cfg.SSH.User, dev.Address)
}

// resolveTarget turns a command argument into a device. The argument may be
// a paired-device ID or a bare address; with no argument the paired list is
// offered in a picker, falling back to a network scan when the list is
// empty (or rescan is forced).
func resolveTarget(cfg *config.Config, store *device.Store, target string, rescan bool) (*device.Device, error) {
	if target != "" {
		if dev, ok := store.Get(target); ok {
			return &dev, nil
		}
		dev := device.New(target, "", device.SourceManual)
		return &dev, nil
	}

	var devices []device.Device
	if !rescan {
		var err error
		devices, err = store.List()
		if err != nil {
			return nil, err
		}
	}

	if len(devices) == 0 {
		found, err := scanNetwork(cfg, "")
		if err != nil {
			return nil, err
		}
		devices = found
	}

	dev, err := ui.PickDevice(devices)
	if err != nil {
		return nil, err
	}
	if dev == nil {
		return nil, errors.New(errors.ErrDiscover,
			"No device selected",
			"Pick a device from the list, or name one: skinsync push <device>")
	}
	return dev, nil
}

// kodiCheckError explains a failed Kodi-home check on a device.
func kodiCheckError(cfg *config.Config, dev *device.Device) error {
	return errors.New(errors.ErrSSH,
		fmt.Sprintf("%s doesn't look like a Kodi device (no %s)", dev.Label(), cfg.Kodi.Home),
		"Check the address, or set kodi.home in the config if Kodi lives elsewhere")
}

// scanNetwork runs discovery with a spinner. An empty result is not an
// error; callers decide what no devices means.
func scanNetwork(cfg *config.Config, timeoutFlag string) ([]device.Device, error) {
	timeout, err := ParseTimeout(timeoutFlag)
	if err != nil {
		return nil, err
	}

	scanCfg := cfg.Scan
	if timeout > 0 {
		scanCfg.Timeout = timeout
	}

	spinner := ui.NewSpinner("Scanning the network")
	spinner.Start()

	d := discover.New(scanCfg, cfg.SSH.Port, logger.Default())
	devices, err := d.Discover(context.Background())
	if err != nil {
		spinner.Fail()
		return nil, err
	}

	spinner.Success()
	return devices, nil
}
