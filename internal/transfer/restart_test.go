package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsync/internal/errors"
	sshtesting "skinsync/pkg/sshutil/testing"
)

func TestKodiRestart(t *testing.T) {
	m := sshtesting.NewMockClient("192.168.1.50")
	r := NewKodiRestart(m, "systemctl restart kodi")

	require.NoError(t, r.Restart())
	assert.Equal(t, []string{"systemctl restart kodi"}, m.Calls())
}

func TestKodiRestartDefaultCommand(t *testing.T) {
	m := sshtesting.NewMockClient("192.168.1.50")
	r := NewKodiRestart(m, "")

	require.NoError(t, r.Restart())
	assert.Equal(t, []string{"systemctl restart kodi"}, m.Calls())
}

func TestKodiRestartFailure(t *testing.T) {
	m := sshtesting.NewMockClient("192.168.1.50")
	m.SetCommandResponse("systemctl restart kodi", sshtesting.CommandResponse{
		ExitCode: 1,
		Stderr:   []byte("Failed to restart kodi.service"),
	})

	r := NewKodiRestart(m, "systemctl restart kodi")
	err := r.Restart()

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrTransfer))
	assert.Contains(t, err.Error(), "Failed to restart kodi.service")
}
