package cli

import (
	"fmt"
	"os"

	"skinsync/internal/config"
	"skinsync/internal/errors"
	"skinsync/internal/keys"
	"skinsync/internal/logger"
	"skinsync/internal/transfer"
	"skinsync/internal/ui"
	"skinsync/pkg/sshutil"
)

// backupCommand archives a device's category paths without syncing.
func backupCommand(target string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	store := openStore()
	dev, err := resolveTarget(cfg, store, target, false)
	if err != nil {
		return err
	}

	client, err := sshutil.Dial(hostSpec(cfg, dev), cfg.SSH.ProbeTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	if !transfer.IsKodiDevice(client, cfg.Kodi.Home) {
		return kodiCheckError(cfg, dev)
	}

	skin := cfg.Kodi.Skin
	if skin == "" {
		skin = transfer.DetectSkinRemote(client, cfg.Kodi.Home)
	}

	paths, err := transfer.CategoryPaths(cfg, skin, cfg.CategoryNames())
	if err != nil {
		return err
	}

	spinner := ui.NewSpinner("Backing up " + dev.Label())
	spinner.Start()

	b := transfer.NewRemoteBackup(client, cfg.Backup, cfg.Kodi.Home, logger.Default())
	handle, err := b.Backup(paths)
	if err != nil {
		spinner.Fail()
		return err
	}

	if handle == nil {
		spinner.Skip()
		fmt.Println("Nothing to back up: none of the configured paths exist on the device.")
		return nil
	}

	spinner.Success()
	fmt.Printf("%s Backup written to %s on %s\n", ui.SymbolComplete, handle.Path, dev.Label())
	return nil
}

// restartCommand restarts Kodi on a device.
func restartCommand(target string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	store := openStore()
	dev, err := resolveTarget(cfg, store, target, false)
	if err != nil {
		return err
	}

	client, err := sshutil.Dial(hostSpec(cfg, dev), cfg.SSH.ProbeTimeout)
	if err != nil {
		return err
	}
	defer client.Close()

	spinner := ui.NewSpinner("Restarting Kodi on " + dev.Label())
	spinner.Start()

	if err := transfer.NewKodiRestart(client, cfg.Restart.Command).Restart(); err != nil {
		spinner.Fail()
		return err
	}

	spinner.Success()
	return nil
}

// initCommand writes the default config file.
func initCommand(force bool) error {
	path := Config()
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			"Config file already exists at "+path,
			"Use --force to overwrite it")
	}

	if err := config.Write(config.DefaultConfig(), path); err != nil {
		return err
	}

	fmt.Printf("%s Wrote %s\n", ui.SymbolComplete, path)
	fmt.Println("Edit the categories to taste, then find devices with: skinsync scan")
	return nil
}

// resetKeysCommand deletes the default keypair after confirming.
func resetKeysCommand(yes bool) error {
	path := keys.DefaultKeyPath()

	if !yes {
		ok, err := ui.Confirm(
			fmt.Sprintf("Delete the SSH keypair at %s?", path),
			"Devices set up with this key will need setup again")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Keys left alone.")
			return nil
		}
	}

	if err := keys.ResetKeys(path); err != nil {
		return err
	}

	fmt.Printf("%s Removed %s and its public half\n", ui.SymbolComplete, path)
	fmt.Println("Generate a fresh one with: skinsync setup")
	return nil
}
