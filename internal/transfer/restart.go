package transfer

import (
	"fmt"
	"strings"

	"skinsync/internal/errors"
	"skinsync/pkg/sshutil"
)

// KodiRestart restarts the media-center process on a device so it picks up
// the copied configuration.
type KodiRestart struct {
	client  sshutil.SSHClient
	command string
}

// NewKodiRestart creates a restarter that runs the configured command,
// "systemctl restart kodi" by default.
func NewKodiRestart(client sshutil.SSHClient, command string) *KodiRestart {
	if command == "" {
		command = "systemctl restart kodi"
	}
	return &KodiRestart{client: client, command: command}
}

// Restart runs the restart command on the device.
func (r *KodiRestart) Restart() error {
	_, stderr, exitCode, err := r.client.Exec(r.command)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTransfer,
			fmt.Sprintf("Couldn't restart Kodi on %s", r.client.GetHost()),
			"Restart it manually: ssh "+r.client.GetHost()+" '"+r.command+"'")
	}
	if exitCode != 0 {
		return errors.New(errors.ErrTransfer,
			fmt.Sprintf("Restart command failed on %s: %s", r.client.GetHost(), strings.TrimSpace(string(stderr))),
			"Restart it manually: ssh "+r.client.GetHost()+" '"+r.command+"'")
	}
	return nil
}
