package transfer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"skinsync/internal/config"
	"skinsync/internal/errors"
	"skinsync/internal/logger"
)

// LocalBackup archives this machine's category paths before a pull
// overwrites them. Mirrors RemoteBackup but runs tar locally.
type LocalBackup struct {
	cfg      config.BackupConfig
	kodiHome string
	log      logger.Logger

	// runTar is swappable for tests.
	runTar func(archive string, paths []string) error
}

// NewLocalBackup creates a backup runner for the local Kodi home.
func NewLocalBackup(cfg config.BackupConfig, kodiHome string, log logger.Logger) *LocalBackup {
	if log == nil {
		log = logger.Noop()
	}
	b := &LocalBackup{cfg: cfg, kodiHome: kodiHome, log: log}
	b.runTar = b.execTar
	return b
}

// Backup archives the given Kodi-home-relative paths locally.
// Same contract as RemoteBackup: missing paths are skipped, nothing
// existing means no archive, old archives are pruned after success.
func (b *LocalBackup) Backup(paths []string) (*BackupHandle, error) {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(b.kodiHome, p)); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		b.log.Debug("backup: nothing to archive locally")
		return nil, nil
	}

	if err := os.MkdirAll(b.cfg.Dir, 0755); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrBackup,
			fmt.Sprintf("Couldn't create backup directory %s", b.cfg.Dir),
			"Check permissions, or change backup.dir in the config")
	}

	archive := filepath.Join(b.cfg.Dir, fmt.Sprintf("%s%s.tar.gz", archivePrefix, now().Format("20060102-150405")))

	if err := b.runTar(archive, existing); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrBackup,
			"Local backup failed",
			fmt.Sprintf("Check free space: df -h %s", b.cfg.Dir))
	}

	b.prune()

	return &BackupHandle{Path: archive, CreatedAt: now()}, nil
}

func (b *LocalBackup) execTar(archive string, paths []string) error {
	args := append([]string{"-czf", archive, "-C", b.kodiHome}, paths...)
	cmd := exec.Command("tar", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tar: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// prune removes local archives beyond the keep count, oldest first.
// Best-effort, like the remote prune.
func (b *LocalBackup) prune() {
	if b.cfg.Keep <= 0 {
		return
	}

	matches, err := filepath.Glob(filepath.Join(b.cfg.Dir, archivePrefix+"*.tar.gz"))
	if err != nil || len(matches) <= b.cfg.Keep {
		return
	}

	// Timestamped names sort chronologically
	sort.Strings(matches)
	for _, old := range matches[:len(matches)-b.cfg.Keep] {
		if err := os.Remove(old); err != nil {
			b.log.Warn("backup: couldn't prune %s", old)
		}
	}
}

// LocalRestart restarts the media center on this machine after a pull.
type LocalRestart struct {
	command string

	// runCommand is swappable for tests.
	runCommand func(command string) error
}

// NewLocalRestart creates a restarter for the local media center.
func NewLocalRestart(command string) *LocalRestart {
	if command == "" {
		command = "systemctl restart kodi"
	}
	r := &LocalRestart{command: command}
	r.runCommand = func(c string) error {
		out, err := exec.Command("sh", "-c", c).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %s", err, strings.TrimSpace(string(out)))
		}
		return nil
	}
	return r
}

// Restart runs the restart command locally.
func (r *LocalRestart) Restart() error {
	if err := r.runCommand(r.command); err != nil {
		return errors.WrapWithCode(err, errors.ErrTransfer,
			"Couldn't restart the local media center",
			"Restart it manually: "+r.command)
	}
	return nil
}
