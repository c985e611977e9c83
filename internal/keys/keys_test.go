package keys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsync/internal/errors"
)

func writeKeyPair(t *testing.T, home, name string) string {
	t.Helper()
	sshDir := filepath.Join(home, ".ssh")
	require.NoError(t, os.MkdirAll(sshDir, 0700))

	priv := filepath.Join(sshDir, name)
	require.NoError(t, os.WriteFile(priv, []byte("private"), 0600))
	require.NoError(t, os.WriteFile(priv+".pub", []byte("ssh-ed25519 AAAA test\n"), 0644))
	return priv
}

func TestInferKeyType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/u/.ssh/id_ed25519", "ed25519"},
		{"/home/u/.ssh/id_rsa", "rsa"},
		{"/home/u/.ssh/id_ecdsa", "ecdsa"},
		{"/home/u/.ssh/something", "unknown"},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			assert.Equal(t, tt.want, inferKeyType(tt.path))
		})
	}
}

func TestFindLocalKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Empty(t, FindLocalKeys())
	assert.False(t, HasAnyKey())

	priv := writeKeyPair(t, home, "id_ed25519")

	found := FindLocalKeys()
	require.Len(t, found, 1)
	assert.Equal(t, priv, found[0].Path)
	assert.Equal(t, "ed25519", found[0].Type)
	assert.True(t, found[0].HasPublic)
	assert.True(t, HasAnyKey())
}

func TestGetPreferredKeyPrefersED25519(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	writeKeyPair(t, home, "id_rsa")
	ed := writeKeyPair(t, home, "id_ed25519")

	key := GetPreferredKey()
	require.NotNil(t, key)
	assert.Equal(t, ed, key.Path)
}

func TestGetPreferredKeyNoKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.Nil(t, GetPreferredKey())
}

func TestGenerateKeyInvalidType(t *testing.T) {
	err := GenerateKey(filepath.Join(t.TempDir(), "key"), "dsa")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
	assert.Contains(t, err.Error(), "dsa")
}

func TestGenerateKeyAlreadyExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0600))

	err := GenerateKey(path, "ed25519")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestResetKeys(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	priv := writeKeyPair(t, home, "id_ed25519")

	require.NoError(t, ResetKeys(priv))

	_, err := os.Stat(priv)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(priv + ".pub")
	assert.True(t, os.IsNotExist(err))
}

func TestResetKeysMissing(t *testing.T) {
	err := ResetKeys(filepath.Join(t.TempDir(), "id_ed25519"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
	assert.Contains(t, err.Error(), "No key found")
}

func TestReadPublicKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "id_ed25519.pub")
	require.NoError(t, os.WriteFile(path, []byte("ssh-ed25519 AAAA test\n"), 0644))

	key, err := ReadPublicKey(path)
	require.NoError(t, err)
	assert.Equal(t, "ssh-ed25519 AAAA test", key)
}

func TestReadPublicKeyMissing(t *testing.T) {
	_, err := ReadPublicKey(filepath.Join(t.TempDir(), "nope.pub"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSSH))
}
