package transfer

import (
	"fmt"

	"skinsync/internal/errors"
	"skinsync/internal/logger"
)

// Backuper archives the destination's paths before they're overwritten.
// A nil handle with nil error means there was nothing to back up.
type Backuper interface {
	Backup(paths []string) (*BackupHandle, error)
}

// Copier moves the category paths between the two ends.
type Copier interface {
	Copy(paths []string) error
}

// Restarter restarts the media center on the destination.
type Restarter interface {
	Restart() error
}

// Result reports what a transfer run did.
type Result struct {
	Backup *BackupHandle
	Copied []string
}

// Orchestrator runs a transfer in strict order: backup the destination,
// copy, then restart. A backup failure aborts before anything destructive
// happens. Backup and Restart are optional; Copier is required.
type Orchestrator struct {
	Backup  Backuper
	Copy    Copier
	Restart Restarter
	Log     logger.Logger
}

// Run executes the transfer for the given Kodi-home-relative paths.
// Failures name the step that broke; a completed copy is never rolled back.
func (o *Orchestrator) Run(paths []string) (*Result, error) {
	log := o.Log
	if log == nil {
		log = logger.Noop()
	}

	if o.Copy == nil {
		return nil, errors.New(errors.ErrTransfer,
			"No copier configured",
			"This is a bug in the caller")
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrTransfer,
			"Nothing selected to sync",
			"Pick at least one category")
	}

	result := &Result{Copied: paths}

	if o.Backup != nil {
		log.Info("backing up destination before copy")
		handle, err := o.Backup.Backup(paths)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrBackup,
				"Backup failed, nothing was copied",
				"Fix the backup problem or disable backups with --no-backup")
		}
		result.Backup = handle
		if handle != nil {
			log.Info("backup written to %s", handle.Path)
		}
	}

	log.Info("copying %d path(s)", len(paths))
	if err := o.Copy.Copy(paths); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransfer,
			fmt.Sprintf("Copy failed after %s", backupNote(result.Backup)),
			"The destination may be partially updated. Re-run the sync once the problem is fixed.")
	}

	if o.Restart != nil {
		log.Info("restarting media center")
		if err := o.Restart.Restart(); err != nil {
			// The copy itself succeeded; report the restart as the
			// failing step rather than undoing anything.
			return result, errors.WrapWithCode(err, errors.ErrTransfer,
				"Files copied, but the restart failed",
				"Restart the device's media center manually")
		}
	}

	return result, nil
}

func backupNote(handle *BackupHandle) string {
	if handle == nil {
		return "no backup was taken"
	}
	return "the backup at " + handle.Path
}
