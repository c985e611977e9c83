package transfer

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"skinsync/internal/errors"
	"skinsync/internal/logger"
	"skinsync/internal/util"
	"skinsync/pkg/sshutil"
)

// Direction says which way the copy flows relative to this machine.
type Direction string

const (
	DirectionPush Direction = "push" // local -> device
	DirectionPull Direction = "pull" // device -> local
)

// sshOptions keeps rsync and scp from hanging on prompts.
var sshOptions = []string{"-o", "BatchMode=yes", "-o", "ConnectTimeout=5"}

// FindRsync locates the rsync binary on the local system.
func FindRsync() (string, error) {
	rsyncPath, err := exec.LookPath("rsync")
	if err != nil {
		return "", errors.New(errors.ErrTransfer,
			"rsync isn't installed locally",
			"Grab it with: apt install rsync (Linux) or brew install rsync (macOS). scp will be used instead.")
	}
	return rsyncPath, nil
}

// Copy moves category directories between the local Kodi home and a device.
// It prefers rsync and falls back to scp when rsync isn't installed locally.
type Copy struct {
	client     sshutil.SSHClient
	host       string // user@address for the rsync/scp remote spec
	direction  Direction
	localHome  string
	remoteHome string
	progress   io.Writer
	log        logger.Logger

	// runCommand is swappable for tests.
	runCommand func(name string, args []string, progress io.Writer) error
}

// NewCopy creates a copier for the given device and direction.
func NewCopy(client sshutil.SSHClient, host string, direction Direction, localHome, remoteHome string, progress io.Writer, log logger.Logger) *Copy {
	if log == nil {
		log = logger.Noop()
	}
	return &Copy{
		client:     client,
		host:       host,
		direction:  direction,
		localHome:  localHome,
		remoteHome: remoteHome,
		progress:   progress,
		log:        log,
		runCommand: runCommand,
	}
}

// Copy transfers the given Kodi-home-relative paths. Source paths that
// don't exist are skipped with a warning; copying nothing is not an error.
func (c *Copy) Copy(paths []string) error {
	rsyncPath, rsyncErr := FindRsync()
	if rsyncErr != nil {
		c.log.Warn("rsync not found, falling back to scp")
	}

	for _, p := range paths {
		exists, err := c.sourceExists(p)
		if err != nil {
			return err
		}
		if !exists {
			c.log.Warn("copy: source %s doesn't exist, skipping", p)
			continue
		}

		if err := c.ensureDestDir(p); err != nil {
			return err
		}

		if rsyncErr == nil {
			err = c.rsyncOne(rsyncPath, p)
		} else {
			err = c.scpOne(p)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// BuildRsyncArgs constructs the rsync arguments for one path.
// Exported for testing command construction without running rsync.
func BuildRsyncArgs(direction Direction, host, localHome, remoteHome, relPath string) []string {
	local := filepath.Join(localHome, relPath) + "/"
	remote := fmt.Sprintf("%s:%s/", host, path.Join(remoteHome, relPath))

	args := []string{
		"-az",      // archive mode, compress
		"--delete", // destination mirrors the source exactly
		"-e", "ssh " + strings.Join(sshOptions, " "),
	}

	if direction == DirectionPull {
		return append(args, remote, local)
	}
	return append(args, local, remote)
}

// BuildScpArgs constructs the scp arguments for one path. scp -r copies the
// directory itself, so the destination is the parent.
func BuildScpArgs(direction Direction, host, localHome, remoteHome, relPath string) []string {
	local := filepath.Join(localHome, relPath)
	remote := fmt.Sprintf("%s:%s", host, path.Join(remoteHome, relPath))

	args := append([]string{"-r"}, sshOptions...)

	if direction == DirectionPull {
		return append(args, remote, filepath.Dir(local))
	}
	return append(args, local, fmt.Sprintf("%s:%s", host, path.Dir(path.Join(remoteHome, relPath))))
}

func (c *Copy) rsyncOne(rsyncPath, relPath string) error {
	args := BuildRsyncArgs(c.direction, c.host, c.localHome, c.remoteHome, relPath)
	c.log.Debug("rsync %s", strings.Join(args, " "))

	if err := c.runCommand(rsyncPath, args, c.progress); err != nil {
		return handleRsyncError(err, c.host, relPath)
	}
	return nil
}

func (c *Copy) scpOne(relPath string) error {
	args := BuildScpArgs(c.direction, c.host, c.localHome, c.remoteHome, relPath)
	c.log.Debug("scp %s", strings.Join(args, " "))

	if err := c.runCommand("scp", args, c.progress); err != nil {
		return errors.WrapWithCode(err, errors.ErrTransfer,
			fmt.Sprintf("Couldn't copy %s to %s", relPath, c.host),
			"Check the SSH connection and free space on the device")
	}
	return nil
}

// sourceExists checks the copy source: the local path when pushing, the
// device path when pulling.
func (c *Copy) sourceExists(relPath string) (bool, error) {
	if c.direction == DirectionPush {
		_, err := os.Stat(filepath.Join(c.localHome, relPath))
		if err != nil && !os.IsNotExist(err) {
			return false, errors.WrapWithCode(err, errors.ErrTransfer,
				fmt.Sprintf("Couldn't inspect local path %s", relPath),
				"Check permissions on the Kodi home directory")
		}
		return err == nil, nil
	}

	full := path.Join(c.remoteHome, relPath)
	_, _, exitCode, err := c.client.Exec(fmt.Sprintf("test -e %s", util.ShellQuote(full)))
	if err != nil {
		return false, err
	}
	return exitCode == 0, nil
}

// ensureDestDir creates the destination parent directory so rsync and scp
// have somewhere to land.
func (c *Copy) ensureDestDir(relPath string) error {
	if c.direction == DirectionPush {
		dir := path.Join(c.remoteHome, relPath)
		_, stderr, exitCode, err := c.client.Exec(fmt.Sprintf("mkdir -p %s", util.ShellQuote(dir)))
		if err != nil {
			return err
		}
		if exitCode != 0 {
			return errors.New(errors.ErrTransfer,
				fmt.Sprintf("Couldn't create %s on %s", dir, c.host),
				fmt.Sprintf("Remote error: %s", strings.TrimSpace(string(stderr))))
		}
		return nil
	}

	dir := filepath.Join(c.localHome, relPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapWithCode(err, errors.ErrTransfer,
			fmt.Sprintf("Couldn't create local directory %s", dir),
			"Check permissions on the Kodi home directory")
	}
	return nil
}

// runCommand executes a local command, streaming combined output to the
// progress writer when one is provided.
func runCommand(name string, args []string, progress io.Writer) error {
	cmd := exec.Command(name, args...)
	if progress != nil {
		cmd.Stdout = progress
		cmd.Stderr = progress
	}
	return cmd.Run()
}

// handleRsyncError wraps rsync exit errors with helpful messages.
// rsync exit codes have specific meanings; see the rsync man page.
func handleRsyncError(err error, host, relPath string) error {
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return errors.WrapWithCode(err, errors.ErrTransfer,
			fmt.Sprintf("rsync of %s failed", relPath),
			"Try running rsync manually to diagnose")
	}

	var msg, suggestion string
	switch exitErr.ExitCode() {
	case 3:
		msg = "File selection error"
		suggestion = "Check that source paths exist and are readable"
	case 11:
		msg = "Error in file I/O"
		suggestion = "Check disk space and file permissions on both ends"
	case 12:
		msg = "rsync isn't installed on the device"
		suggestion = "CoreELEC includes rsync; on other boxes install it, or remove rsync locally to fall back to scp"
	case 23:
		msg = "Partial transfer due to error"
		suggestion = "Some files may have permission issues, check the output above"
	case 255:
		msg = fmt.Sprintf("SSH connection to '%s' failed", host)
		suggestion = "Check that the device is reachable: ssh " + host
	default:
		msg = fmt.Sprintf("rsync exited with code %d", exitErr.ExitCode())
		suggestion = "Check the output above for specific error details"
	}

	return errors.WrapWithCode(err, errors.ErrTransfer,
		fmt.Sprintf("%s (copying %s)", msg, relPath), suggestion)
}
