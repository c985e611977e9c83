// Package cli wires the cobra command tree. Command definitions live in
// commands.go; the implementations live in per-concern files alongside.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skinsync/pkg/sshutil"
)

// Persistent flags shared by every command.
var (
	configFlag       string
	noVerifyHostKeys bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "skinsync",
	Short: "Sync Kodi skin settings between CoreELEC devices",
	Long: `skinsync copies Kodi skin configuration between CoreELEC devices
over SSH: the skin's settings, addon configuration, keymaps, and
favourites.

Find devices on the LAN, pair with them once, then push or pull the
configured categories. The destination is backed up before anything is
overwritten, and Kodi is restarted afterward so changes take effect.

Typical flow:
  skinsync scan                  find devices on the network
  skinsync setup living-room     install the SSH key, pair the device
  skinsync push living-room      copy this box's skin setup over`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noVerifyHostKeys {
			sshutil.StrictHostKeyChecking = false
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.config/skinsync/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noVerifyHostKeys, "no-verify-hostkey", false, "skip SSH host key verification (freshly flashed devices)")
}

// Config returns the --config flag value for command implementations.
func Config() string {
	return configFlag
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
