package transfer

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsync/internal/logger"
	sshtesting "skinsync/pkg/sshutil/testing"
)

func TestBuildRsyncArgsPush(t *testing.T) {
	args := BuildRsyncArgs(DirectionPush, "root@192.168.1.50", "/storage/.kodi", "/storage/.kodi", "userdata/keymaps")

	assert.Contains(t, args, "-az")
	assert.Contains(t, args, "--delete")

	// Source then destination, both with trailing slashes so contents sync
	assert.Equal(t, "/storage/.kodi/userdata/keymaps/", args[len(args)-2])
	assert.Equal(t, "root@192.168.1.50:/storage/.kodi/userdata/keymaps/", args[len(args)-1])

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "BatchMode=yes")
	assert.Contains(t, joined, "ConnectTimeout=5")
}

func TestBuildRsyncArgsPull(t *testing.T) {
	args := BuildRsyncArgs(DirectionPull, "root@192.168.1.50", "/home/u/.kodi", "/storage/.kodi", "userdata/keymaps")

	assert.Equal(t, "root@192.168.1.50:/storage/.kodi/userdata/keymaps/", args[len(args)-2])
	assert.Equal(t, "/home/u/.kodi/userdata/keymaps/", args[len(args)-1])
}

func TestBuildScpArgs(t *testing.T) {
	push := BuildScpArgs(DirectionPush, "root@192.168.1.50", "/home/u/.kodi", "/storage/.kodi", "userdata/keymaps")
	assert.Equal(t, "-r", push[0])
	assert.Equal(t, "/home/u/.kodi/userdata/keymaps", push[len(push)-2])
	// scp -r copies the directory itself, so the target is the parent
	assert.Equal(t, "root@192.168.1.50:/storage/.kodi/userdata", push[len(push)-1])

	pull := BuildScpArgs(DirectionPull, "root@192.168.1.50", "/home/u/.kodi", "/storage/.kodi", "userdata/keymaps")
	assert.Equal(t, "root@192.168.1.50:/storage/.kodi/userdata/keymaps", pull[len(pull)-2])
	assert.Equal(t, "/home/u/.kodi/userdata", pull[len(pull)-1])
}

type recordedCommand struct {
	name string
	args []string
}

func newTestCopy(t *testing.T, direction Direction, localHome string, client *sshtesting.MockClient) (*Copy, *[]recordedCommand) {
	t.Helper()
	c := NewCopy(client, "root@192.168.1.50", direction, localHome, "/storage/.kodi", nil, logger.Noop())

	var recorded []recordedCommand
	c.runCommand = func(name string, args []string, progress io.Writer) error {
		recorded = append(recorded, recordedCommand{name, args})
		return nil
	}
	return c, &recorded
}

func TestCopyPush(t *testing.T) {
	localHome := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(localHome, "userdata", "keymaps"), 0755))

	m := sshtesting.NewMockClient("192.168.1.50")
	c, recorded := newTestCopy(t, DirectionPush, localHome, m)

	require.NoError(t, c.Copy([]string{"userdata/keymaps"}))

	// Destination directory is created on the device first
	require.NotEmpty(t, m.Calls())
	assert.Contains(t, m.Calls()[0], "mkdir -p '/storage/.kodi/userdata/keymaps'")

	require.Len(t, *recorded, 1)
	joined := strings.Join((*recorded)[0].args, " ")
	assert.Contains(t, joined, "userdata/keymaps")
}

func TestCopyPushSkipsMissingLocalSource(t *testing.T) {
	m := sshtesting.NewMockClient("192.168.1.50")
	c, recorded := newTestCopy(t, DirectionPush, t.TempDir(), m)

	require.NoError(t, c.Copy([]string{"userdata/keymaps"}))

	assert.Empty(t, *recorded, "nothing should be copied for a missing source")
	assert.Empty(t, m.Calls())
}

func TestCopyPullCreatesLocalDir(t *testing.T) {
	localHome := t.TempDir()
	m := sshtesting.NewMockClient("192.168.1.50")
	c, recorded := newTestCopy(t, DirectionPull, localHome, m)

	require.NoError(t, c.Copy([]string{"userdata/keymaps"}))

	info, err := os.Stat(filepath.Join(localHome, "userdata", "keymaps"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	require.Len(t, *recorded, 1)
}

func TestCopyPullSkipsMissingRemoteSource(t *testing.T) {
	m := sshtesting.NewMockClient("192.168.1.50")
	m.SetCommandResponse(`^test -e .*`, sshtesting.CommandResponse{ExitCode: 1})

	c, recorded := newTestCopy(t, DirectionPull, t.TempDir(), m)

	require.NoError(t, c.Copy([]string{"userdata/keymaps"}))
	assert.Empty(t, *recorded)
}

func TestHandleRsyncErrorPlainFailure(t *testing.T) {
	err := handleRsyncError(assert.AnError, "root@192.168.1.50", "userdata/keymaps")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "userdata/keymaps")
}
