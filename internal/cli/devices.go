package cli

import (
	"fmt"
	"net"

	"skinsync/internal/device"
	"skinsync/internal/errors"
	"skinsync/internal/ui"
)

func devicesListCommand() error {
	store := openStore()
	devices, err := store.List()
	if err != nil {
		return err
	}

	fmt.Println(ui.RenderDeviceTable(devices))
	return nil
}

func devicesAddCommand(address, hostname string) error {
	if net.ParseIP(address) == nil {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't an IP address", address),
			"Use the device's IP, e.g. skinsync devices add 192.168.1.50")
	}

	store := openStore()
	dev := device.New(address, hostname, device.SourceManual)
	if err := store.AddOrUpdate(dev); err != nil {
		return err
	}

	fmt.Printf("%s Added %s\n", ui.SymbolComplete, dev.Label())
	fmt.Println("Pair it with: skinsync setup " + dev.ID)
	return nil
}

func devicesRemoveCommand(id string) error {
	store := openStore()

	dev, ok := store.Get(id)
	if !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("No paired device named '%s'", id),
			"List paired devices with: skinsync devices")
	}

	if err := store.Remove(id); err != nil {
		return err
	}

	fmt.Printf("%s Removed %s\n", ui.SymbolComplete, dev.Label())
	return nil
}
