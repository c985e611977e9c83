package transfer

import (
	"fmt"
	"strings"
	"time"

	"skinsync/internal/config"
	"skinsync/internal/errors"
	"skinsync/internal/logger"
	"skinsync/internal/util"
	"skinsync/pkg/sshutil"
)

// BackupHandle identifies an archive created on the destination device.
type BackupHandle struct {
	Path      string
	CreatedAt time.Time
}

// archivePrefix names backup archives so pruning can find them.
const archivePrefix = "skinsync-"

// now is swappable for tests.
var now = time.Now

// RemoteBackup archives the destination's category paths into a tarball on
// the device before anything is overwritten.
type RemoteBackup struct {
	client   sshutil.SSHClient
	cfg      config.BackupConfig
	kodiHome string
	log      logger.Logger
}

// NewRemoteBackup creates a backup runner for the given device.
func NewRemoteBackup(client sshutil.SSHClient, cfg config.BackupConfig, kodiHome string, log logger.Logger) *RemoteBackup {
	if log == nil {
		log = logger.Noop()
	}
	return &RemoteBackup{client: client, cfg: cfg, kodiHome: kodiHome, log: log}
}

// Backup archives the given Kodi-home-relative paths on the device.
// Paths that don't exist yet are skipped; if none exist there is nothing to
// protect and no archive is created. Old archives beyond the keep count are
// pruned after a successful run.
func (b *RemoteBackup) Backup(paths []string) (*BackupHandle, error) {
	existing, err := b.existingPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		b.log.Debug("backup: nothing to archive on %s", b.client.GetHost())
		return nil, nil
	}

	archive := fmt.Sprintf("%s/%s%s.tar.gz", b.cfg.Dir, archivePrefix, now().Format("20060102-150405"))

	cmd := fmt.Sprintf("mkdir -p %s && cd %s && tar -czf %s %s",
		util.ShellQuote(b.cfg.Dir),
		util.ShellQuote(b.kodiHome),
		util.ShellQuote(archive),
		util.ShellQuoteAll(existing))

	b.log.Debug("backup: %s", cmd)
	_, stderr, exitCode, err := b.client.Exec(cmd)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrBackup,
			fmt.Sprintf("Backup on %s failed", b.client.GetHost()),
			"Check the SSH connection and try again")
	}
	if exitCode != 0 {
		return nil, errors.New(errors.ErrBackup,
			fmt.Sprintf("Backup on %s failed: %s", b.client.GetHost(), strings.TrimSpace(string(stderr))),
			fmt.Sprintf("Check free space on the device: df -h %s", b.cfg.Dir))
	}

	b.prune()

	return &BackupHandle{Path: archive, CreatedAt: now()}, nil
}

// existingPaths filters the requested paths down to ones present on the
// device.
func (b *RemoteBackup) existingPaths(paths []string) ([]string, error) {
	var existing []string
	for _, p := range paths {
		full := b.kodiHome + "/" + p
		_, _, exitCode, err := b.client.Exec(fmt.Sprintf("test -e %s", util.ShellQuote(full)))
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrBackup,
				fmt.Sprintf("Couldn't inspect %s on %s", p, b.client.GetHost()),
				"Check the SSH connection and try again")
		}
		if exitCode == 0 {
			existing = append(existing, p)
		}
	}
	return existing, nil
}

// prune removes archives beyond the keep count, oldest first.
// Best-effort: a failed prune never fails the backup.
func (b *RemoteBackup) prune() {
	if b.cfg.Keep <= 0 {
		return
	}

	cmd := fmt.Sprintf("ls -t %s/%s*.tar.gz 2>/dev/null | tail -n +%d | xargs -r rm -f",
		util.ShellQuote(b.cfg.Dir), archivePrefix, b.cfg.Keep+1)

	if _, _, exitCode, err := b.client.Exec(cmd); err != nil || exitCode != 0 {
		b.log.Warn("backup: prune on %s failed", b.client.GetHost())
	}
}
