package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	// Verify all expected error codes exist
	codes := []string{
		ErrConfig,
		ErrSSH,
		ErrDiscover,
		ErrTransfer,
		ErrBackup,
		ErrExec,
	}

	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
	}

	// Verify codes are unique
	seen := make(map[string]bool)
	for _, code := range codes {
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in config.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "ssh error",
			code:       ErrSSH,
			message:    "Cannot connect to the device",
			suggestion: "Run 'skinsync setup' to configure SSH keys",
		},
		{
			name:       "discover error",
			code:       ErrDiscover,
			message:    "Could not determine network prefix",
			suggestion: "Set network_prefix in the config file",
		},
		{
			name:       "transfer error",
			code:       ErrTransfer,
			message:    "Copy step failed with exit code 1",
			suggestion: "Check that rsync is installed on both devices",
		},
		{
			name:       "backup error",
			code:       ErrBackup,
			message:    "Backup failed on the target device",
			suggestion: "Check free space under /storage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name          string
		err           *Error
		expectedParts []string
	}{
		{
			name: "basic error formatting",
			err:  New(ErrConfig, "Invalid configuration", "Check config.yaml syntax"),
			expectedParts: []string{
				"Invalid configuration",
				"Check config.yaml syntax",
			},
		},
		{
			name: "error with failure symbol",
			err:  New(ErrSSH, "Connection failed", "Try again"),
			expectedParts: []string{
				"✗",
				"Connection failed",
			},
		},
		{
			name: "wrapped error includes cause",
			err:  WrapWithCode(errors.New("dial tcp: i/o timeout"), ErrSSH, "Can't reach the device", "Check the device is powered on"),
			expectedParts: []string{
				"Can't reach the device",
				"dial tcp: i/o timeout",
				"Check the device is powered on",
			},
		},
		{
			name: "no suggestion omits suggestion block",
			err:  Wrap(errors.New("boom"), "Something broke"),
			expectedParts: []string{
				"Something broke",
				"boom",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.err.Error()
			for _, part := range tt.expectedParts {
				assert.True(t, strings.Contains(out, part),
					"expected %q in output:\n%s", part, out)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying failure")
	err := WrapWithCode(cause, ErrTransfer, "Copy failed", "")

	assert.ErrorIs(t, err, cause)

	var serr *Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, ErrTransfer, serr.Code)
}

func TestIsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{
			name: "matching code",
			err:  New(ErrBackup, "backup failed", ""),
			code: ErrBackup,
			want: true,
		},
		{
			name: "non-matching code",
			err:  New(ErrBackup, "backup failed", ""),
			code: ErrSSH,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			code: ErrSSH,
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("plain"),
			code: ErrSSH,
			want: false,
		},
		{
			name: "wrapped structured error",
			err:  WrapWithCode(New(ErrSSH, "inner", ""), ErrTransfer, "outer", ""),
			code: ErrTransfer,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCode(tt.err, tt.code))
		})
	}
}
