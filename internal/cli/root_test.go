package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistration(t *testing.T) {
	expected := []string{
		"scan", "devices", "setup", "push", "pull",
		"backup", "restart", "init", "reset-keys",
		"completion", "version",
	}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "command %q should be registered", name)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	configF := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configF)
	assert.Equal(t, "string", configF.Value.Type())

	hostKeyF := rootCmd.PersistentFlags().Lookup("no-verify-hostkey")
	require.NotNil(t, hostKeyF)
	assert.Equal(t, "bool", hostKeyF.Value.Type())
	assert.Equal(t, "false", hostKeyF.DefValue)
}

func TestConfigAccessor(t *testing.T) {
	original := configFlag
	defer func() { configFlag = original }()

	configFlag = "/tmp/custom.yaml"
	assert.Equal(t, "/tmp/custom.yaml", Config())
}

func TestDevicesSubcommands(t *testing.T) {
	expected := []string{"list", "add", "remove"}

	registered := make(map[string]bool)
	for _, cmd := range devicesCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "devices subcommand %q should be registered", name)
	}
}
