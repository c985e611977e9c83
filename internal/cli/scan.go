package cli

import (
	"fmt"

	"skinsync/internal/config"
	"skinsync/internal/ui"
	"skinsync/internal/util"
)

// scanCommand discovers devices and prints them. With save, found devices
// are merged into the paired list.
func scanCommand(save bool, timeoutFlag string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	devices, err := scanNetwork(cfg, timeoutFlag)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		fmt.Println("No devices found.")
		fmt.Println("Make sure SSH is enabled on the device (CoreELEC: Settings > Services > SSH),")
		fmt.Println("or add one directly: skinsync devices add <address>")
		return nil
	}

	fmt.Println()
	fmt.Println(ui.RenderDeviceTable(devices))
	fmt.Println()
	fmt.Printf("Found %d %s\n", len(devices), util.Pluralize(len(devices), "device", "devices"))

	if save {
		store := openStore()
		for _, dev := range devices {
			if err := store.AddOrUpdate(dev); err != nil {
				return err
			}
		}
		fmt.Println("Saved to the paired list. Next: skinsync setup <device>")
	} else {
		fmt.Println("Pair one with: skinsync setup <address>")
	}

	return nil
}
