package cli

import (
	"os"

	"github.com/spf13/cobra"

	"skinsync/internal/errors"
)

// Command-specific flags
var (
	scanSaveFlag    bool
	scanTimeoutFlag string
	addHostnameFlag string
	setupKeyType    string
	initForce       bool
	resetKeysYes    bool
	pushFlags       TransferFlags
	pullFlags       TransferFlags
)

// scanCmd finds CoreELEC devices on the local network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find CoreELEC devices on the local network",
	Long: `Scan the local network for devices running an SSH server.

Devices are found via mDNS first; when that comes up empty the local
/24 is swept for open SSH ports. Finding nothing is not an error.

Examples:
  skinsync scan
  skinsync scan --save
  skinsync scan --timeout 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return scanCommand(scanSaveFlag, scanTimeoutFlag)
	},
}

// devicesCmd manages the paired-device list
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Manage paired devices",
	Long: `List, add, and remove paired devices.

Paired devices are remembered in ~/.config/skinsync/devices.json so
push and pull can name them without rescanning the network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return devicesListCommand()
	},
}

var devicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List paired devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return devicesListCommand()
	},
}

var devicesAddCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Add a device by IP address",
	Long: `Add a device manually, for boxes mDNS can't see.

Examples:
  skinsync devices add 192.168.1.50
  skinsync devices add 192.168.1.50 --hostname bedroom`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return devicesAddCommand(args[0], addHostnameFlag)
	},
}

var devicesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a paired device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return devicesRemoveCommand(args[0])
	},
}

// setupCmd installs the SSH key on a device and pairs with it
var setupCmd = &cobra.Command{
	Use:   "setup [device]",
	Short: "Install the SSH key on a device and pair with it",
	Long: `Set up passwordless SSH to a device and remember it.

Walks through:
  - SSH key generation (if this box has none yet)
  - Installing the public key on the device (asks for its password once;
    CoreELEC's default is 'coreelec')
  - Verifying passwordless login works
  - Checking the device actually runs Kodi

With no argument, scans the network and lets you pick a device.

Examples:
  skinsync setup
  skinsync setup 192.168.1.50
  skinsync setup living-room`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return setupCommand(target, setupKeyType)
	},
}

// pushCmd copies this box's skin configuration to a device
var pushCmd = &cobra.Command{
	Use:   "push [device]",
	Short: "Copy skin settings from this box to a device",
	Long: `Push the configured categories to a device.

The device's current files are backed up to a tar.gz first, then the
categories are copied with rsync (scp when rsync is missing), and Kodi
is restarted on the device so the changes take effect.

With no argument, paired devices are offered in a picker; with none
paired, the network is scanned.

Examples:
  skinsync push living-room
  skinsync push --categories skin,keymaps
  skinsync push 192.168.1.50 --no-restart`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return pushCommand(target, pushFlags)
	},
}

// pullCmd copies a device's skin configuration to this box
var pullCmd = &cobra.Command{
	Use:   "pull [device]",
	Short: "Copy skin settings from a device to this box",
	Long: `Pull the configured categories from a device.

This box's current files are backed up to a tar.gz first, then the
categories are copied from the device, and the local Kodi is restarted
so the changes take effect.

Examples:
  skinsync pull living-room
  skinsync pull --categories widgets
  skinsync pull 192.168.1.50 --no-backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := ""
		if len(args) > 0 {
			target = args[0]
		}
		return pullCommand(target, pullFlags)
	},
}

// backupCmd archives a device's category paths without copying anything
var backupCmd = &cobra.Command{
	Use:   "backup <device>",
	Short: "Back up a device's skin settings to a tar.gz on the device",
	Long: `Archive the configured categories on a device without syncing.

The archive lands in the device's backup directory (backup.dir in the
config), and old archives beyond backup.keep are pruned.

Examples:
  skinsync backup living-room
  skinsync backup 192.168.1.50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return backupCommand(args[0])
	},
}

// restartCmd restarts Kodi on a device
var restartCmd = &cobra.Command{
	Use:   "restart <device>",
	Short: "Restart Kodi on a device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return restartCommand(args[0])
	},
}

// initCmd writes a starter config file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the skinsync config file",
	Long: `Write a config file with the default categories and settings.

Creates ~/.config/skinsync/config.yaml (or the --config path) with the
standard categories: skin, widgets, and keymaps.

Examples:
  skinsync init
  skinsync init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

// resetKeysCmd deletes the skinsync SSH keypair
var resetKeysCmd = &cobra.Command{
	Use:   "reset-keys",
	Short: "Delete the SSH keypair so setup can generate a fresh one",
	RunE: func(cmd *cobra.Command, args []string) error {
		return resetKeysCommand(resetKeysYes)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for skinsync.

Examples:
  # Bash
  skinsync completion bash > /etc/bash_completion.d/skinsync

  # Zsh
  skinsync completion zsh > "${fpath[1]}/_skinsync"

  # Fish
  skinsync completion fish > ~/.config/fish/completions/skinsync.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrExec,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// scan command flags
	scanCmd.Flags().BoolVar(&scanSaveFlag, "save", false, "remember found devices in the paired list")
	scanCmd.Flags().StringVar(&scanTimeoutFlag, "timeout", "", "scan timeout (e.g., 4s, 10s)")

	// devices add flags
	devicesAddCmd.Flags().StringVar(&addHostnameFlag, "hostname", "", "friendly name for the device")
	devicesCmd.AddCommand(devicesListCmd)
	devicesCmd.AddCommand(devicesAddCmd)
	devicesCmd.AddCommand(devicesRemoveCmd)

	// setup command flags
	setupCmd.Flags().StringVar(&setupKeyType, "key-type", "ed25519", "SSH key type to generate (ed25519, rsa, ecdsa)")

	// push/pull command flags
	AddTransferFlags(pushCmd, &pushFlags)
	AddTransferFlags(pullCmd, &pullFlags)

	// init command flags
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")

	// reset-keys command flags
	resetKeysCmd.Flags().BoolVarP(&resetKeysYes, "yes", "y", false, "skip the confirmation prompt")

	// Register all commands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(resetKeysCmd)
	rootCmd.AddCommand(completionCmd)
}
