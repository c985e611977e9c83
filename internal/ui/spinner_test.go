package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// captureOutput collects spinner writes thread-safely.
type captureOutput struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (c *captureOutput) write(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.WriteString(s)
}

func (c *captureOutput) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func TestSpinnerSuccess(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("Copying files")
	s.SetOutput(out.write)

	s.Start()
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	assert.Contains(t, out.String(), "Copying files")
	assert.Contains(t, out.String(), SymbolComplete)
}

func TestSpinnerFail(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("Backing up")
	s.SetOutput(out.write)

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, out.String(), SymbolFail)
}

func TestSpinnerSkip(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("Restarting")
	s.SetOutput(out.write)

	s.Start()
	s.Skip()

	assert.Equal(t, SpinnerSkipped, s.State())
	assert.Contains(t, out.String(), SymbolSkipped)
}

func TestSpinnerDoubleStartIsHarmless(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("Scanning")
	s.SetOutput(out.write)

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	assert.Equal(t, SpinnerInProgress, s.State())
}

func TestSpinnerSetLabel(t *testing.T) {
	out := &captureOutput{}
	s := NewSpinner("Scanning")
	s.SetOutput(out.write)
	s.SetLabel("Scanning 192.168.1.0/24")

	s.Start()
	s.Success()

	assert.Contains(t, out.String(), "192.168.1.0/24")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "1.2s", formatDuration(1200*time.Millisecond))
}
