package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"skinsync/internal/errors"
)

// TransferFlags holds the flags shared by push and pull.
type TransferFlags struct {
	Categories   []string
	Skin         string
	NoBackup     bool
	NoRestart    bool
	Rescan       bool
	All          bool
	ProbeTimeout string
}

// AddTransferFlags registers the shared push/pull flags on a command.
func AddTransferFlags(cmd *cobra.Command, flags *TransferFlags) {
	cmd.Flags().StringSliceVar(&flags.Categories, "categories", nil, "categories to sync (comma-separated; default: pick interactively)")
	cmd.Flags().StringVar(&flags.Skin, "skin", "", "skin addon id (e.g., skin.arctic.fuse; default: auto-detect)")
	cmd.Flags().BoolVar(&flags.NoBackup, "no-backup", false, "skip backing up the destination first")
	cmd.Flags().BoolVar(&flags.NoRestart, "no-restart", false, "skip restarting Kodi afterward")
	cmd.Flags().BoolVar(&flags.Rescan, "rescan", false, "scan the network instead of using the paired list")
	cmd.Flags().BoolVarP(&flags.All, "all", "a", false, "sync every configured category without prompting")
	cmd.Flags().StringVar(&flags.ProbeTimeout, "probe-timeout", "", "SSH connect timeout (e.g., 5s, 2m)")
}

// ParseTimeout parses a duration flag. Returns zero when the flag is empty.
func ParseTimeout(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid timeout", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return duration, nil
}
