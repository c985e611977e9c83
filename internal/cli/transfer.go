package cli

import (
	"fmt"
	"os"
	"strings"

	"skinsync/internal/config"
	"skinsync/internal/device"
	"skinsync/internal/logger"
	"skinsync/internal/transfer"
	"skinsync/internal/ui"
	"skinsync/internal/util"
	"skinsync/pkg/sshutil"
)

func pushCommand(target string, flags TransferFlags) error {
	return runTransfer(transfer.DirectionPush, target, flags)
}

func pullCommand(target string, flags TransferFlags) error {
	return runTransfer(transfer.DirectionPull, target, flags)
}

// runTransfer is the shared push/pull implementation: resolve the device,
// connect, figure out what to sync, then run backup-copy-restart.
func runTransfer(direction transfer.Direction, target string, flags TransferFlags) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	probeTimeout, err := ParseTimeout(flags.ProbeTimeout)
	if err != nil {
		return err
	}
	if probeTimeout == 0 {
		probeTimeout = cfg.SSH.ProbeTimeout
	}

	store := openStore()
	dev, err := resolveTarget(cfg, store, target, flags.Rescan)
	if err != nil {
		return err
	}

	spinner := ui.NewSpinner("Connecting to " + dev.Label())
	spinner.Start()

	client, err := sshutil.Dial(hostSpec(cfg, dev), probeTimeout)
	if err != nil {
		spinner.Fail()
		return err
	}
	defer client.Close()

	if !transfer.IsKodiDevice(client, cfg.Kodi.Home) {
		spinner.Fail()
		return kodiCheckError(cfg, dev)
	}
	spinner.Success()

	skin := resolveSkin(cfg, client, direction, flags.Skin)

	categories, err := selectCategories(cfg, flags)
	if err != nil {
		return err
	}

	paths, err := transfer.CategoryPaths(cfg, skin, categories)
	if err != nil {
		return err
	}

	log := logger.Default()
	orch := &transfer.Orchestrator{
		Copy: transfer.NewCopy(client, sshHost(cfg, dev), direction, cfg.Kodi.Home, cfg.Kodi.Home, nil, log),
		Log:  log,
	}
	if cfg.Backup.Enabled && !flags.NoBackup {
		if direction == transfer.DirectionPush {
			orch.Backup = transfer.NewRemoteBackup(client, cfg.Backup, cfg.Kodi.Home, log)
		} else {
			orch.Backup = transfer.NewLocalBackup(cfg.Backup, cfg.Kodi.Home, log)
		}
	}
	if cfg.Restart.Enabled && !flags.NoRestart {
		if direction == transfer.DirectionPush {
			orch.Restart = transfer.NewKodiRestart(client, cfg.Restart.Command)
		} else {
			orch.Restart = transfer.NewLocalRestart(cfg.Restart.Command)
		}
	}

	label := "Pushing to " + dev.Label()
	if direction == transfer.DirectionPull {
		label = "Pulling from " + dev.Label()
	}
	spinner = ui.NewSpinner(label)
	spinner.Start()

	result, err := orch.Run(paths)
	if err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()

	// Refresh the pairing's last-seen timestamp; its position in the
	// list is preserved.
	if err := store.AddOrUpdate(device.New(dev.Address, dev.Hostname, dev.Source)); err != nil {
		log.Warn("couldn't update the paired list: %v", err)
	}

	fmt.Println()
	fmt.Printf("%s Synced %d %s (%s) with %s\n",
		ui.SymbolComplete,
		len(categories), util.Pluralize(len(categories), "category", "categories"),
		strings.Join(categories, ", "),
		dev.Label())
	if result.Backup != nil {
		fmt.Printf("  Previous files saved to %s\n", result.Backup.Path)
	}

	return nil
}

// resolveSkin finds the active skin id, preferring the flag, then the
// config, then detection on the side the files come from.
func resolveSkin(cfg *config.Config, client sshutil.SSHClient, direction transfer.Direction, flagSkin string) string {
	if flagSkin != "" {
		return flagSkin
	}
	if cfg.Kodi.Skin != "" {
		return cfg.Kodi.Skin
	}
	if direction == transfer.DirectionPush {
		return transfer.DetectSkin(cfg.Kodi.Home)
	}
	return transfer.DetectSkinRemote(client, cfg.Kodi.Home)
}

// selectCategories picks the categories to sync: the flag wins, --all (or
// a non-interactive stdin) means everything, otherwise ask.
func selectCategories(cfg *config.Config, flags TransferFlags) ([]string, error) {
	if len(flags.Categories) > 0 {
		return flags.Categories, nil
	}
	if flags.All || !ui.IsTerminal(os.Stdin) {
		return cfg.CategoryNames(), nil
	}

	options := make([]ui.CategoryOption, 0, len(cfg.Categories))
	for _, name := range cfg.CategoryNames() {
		options = append(options, ui.CategoryOption{
			Name:        name,
			Description: cfg.Categories[name].Description,
		})
	}
	return ui.SelectCategories(options)
}
