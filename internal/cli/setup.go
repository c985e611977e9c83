package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"skinsync/internal/config"
	"skinsync/internal/device"
	"skinsync/internal/errors"
	"skinsync/internal/keys"
	"skinsync/internal/logger"
	"skinsync/internal/transfer"
	"skinsync/internal/ui"
	"skinsync/pkg/sshutil"
)

// setupCommand pairs a device: make sure a local key exists, install it on
// the device, verify passwordless login, and remember the device.
func setupCommand(target, keyType string) error {
	cfg, err := config.LoadOrDefault(Config())
	if err != nil {
		return err
	}

	store := openStore()
	dev, err := resolveTarget(cfg, store, target, false)
	if err != nil {
		return err
	}
	host := sshHost(cfg, dev)

	key, err := ensureKey(keyType)
	if err != nil {
		return err
	}

	passwordless, err := probeDevice(cfg, dev)
	if err != nil {
		return err
	}
	if passwordless {
		fmt.Printf("%s Passwordless SSH to %s already works\n", ui.SymbolComplete, dev.Label())
	} else {
		fmt.Printf("Installing the SSH key on %s.\n", dev.Label())
		fmt.Println("Enter the device password when asked (CoreELEC's default is 'coreelec').")
		fmt.Println()

		if err := keys.InstallKey(host, key.Path); err != nil {
			return err
		}

		ok, err := keys.TestPasswordlessAuth(host)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New(errors.ErrSSH,
				fmt.Sprintf("Key installed, but passwordless login to %s still fails", host),
				"Check the device's sshd allows publickey auth, then re-run setup")
		}
		fmt.Printf("%s Passwordless SSH to %s works\n", ui.SymbolComplete, dev.Label())
	}

	spinner := ui.NewSpinner("Checking the device runs Kodi")
	spinner.Start()

	client, err := sshutil.Dial(hostSpec(cfg, dev), cfg.SSH.ProbeTimeout)
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

	if skin := transfer.DetectSkinRemote(client, cfg.Kodi.Home); skin != "" {
		fmt.Printf("Active skin on the device: %s\n", skin)
	}

	if err := ensureKeyAuthorized(client, key); err != nil {
		logger.Default().Warn("couldn't ensure the key is authorized on %s: %v", dev.Label(), err)
	}

	paired := device.New(dev.Address, dev.Hostname, dev.Source)
	if err := store.AddOrUpdate(paired); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("%s Paired with %s\n", ui.SymbolComplete, paired.Label())
	fmt.Printf("Sync to it with: skinsync push %s\n", paired.ID)
	return nil
}

// probeSSH is swappable for tests.
var probeSSH = sshutil.Probe

// probeDevice checks the device with a full SSH handshake. An auth failure
// is the expected pre-setup state, not an error; a clean handshake means
// passwordless login already works.
func probeDevice(cfg *config.Config, dev *device.Device) (bool, error) {
	_, err := probeSSH(hostSpec(cfg, dev), cfg.SSH.ProbeTimeout)
	if err == nil {
		return true, nil
	}

	var perr *sshutil.ProbeError
	if stderrors.As(err, &perr) {
		if perr.Reason == sshutil.ProbeFailAuth {
			return false, nil
		}
		// The underlying dial error carries the actionable suggestion.
		if perr.Cause != nil {
			return false, perr.Cause
		}
	}
	return false, err
}

// ensureKeyAuthorized appends our public key to the device's
// authorized_keys. Login may have worked through the agent or another key;
// transfers need this key specifically.
func ensureKeyAuthorized(client sshutil.SSHClient, key *keys.KeyInfo) error {
	pub, err := keys.ReadPublicKey(key.PublicPath)
	if err != nil {
		return err
	}
	return keys.InstallKeyRemote(client, pub)
}

// ensureKey returns the preferred local key, generating one (after asking)
// when the machine has none.
func ensureKey(keyType string) (*keys.KeyInfo, error) {
	if key := keys.GetPreferredKey(); key != nil {
		return key, nil
	}

	ok, err := ui.Confirm("No SSH key found on this machine. Generate one?",
		fmt.Sprintf("An %s keypair with no passphrase will be created in ~/.ssh", keyType))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.ErrSSH,
			"Setup needs an SSH key",
			"Generate one yourself (ssh-keygen -t ed25519) and re-run setup")
	}

	path := keyPathForType(keyType)
	spinner := ui.NewSpinner("Generating SSH key")
	spinner.Start()
	if err := keys.GenerateKey(path, keyType); err != nil {
		spinner.Fail()
		return nil, err
	}
	spinner.Success()

	key := keys.GetPreferredKey()
	if key == nil {
		return nil, errors.New(errors.ErrSSH,
			"Key generation succeeded but the key can't be found",
			"Check ~/.ssh permissions")
	}
	return key, nil
}

// keyPathForType returns the conventional path for a key of the given type.
func keyPathForType(keyType string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return keys.DefaultKeyPath()
	}
	return filepath.Join(home, ".ssh", "id_"+keyType)
}
