package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"skinsync/internal/device"
	"skinsync/internal/errors"
)

// deviceItem implements list.Item for the Bubbles list component.
type deviceItem struct {
	dev device.Device
}

func (i deviceItem) Title() string {
	if i.dev.Hostname != "" {
		return i.dev.Hostname
	}
	return i.dev.Address
}

func (i deviceItem) Description() string {
	var parts []string
	if i.dev.Hostname != "" {
		parts = append(parts, i.dev.Address)
	}
	if i.dev.Source != "" {
		parts = append(parts, "via "+string(i.dev.Source))
	}
	return strings.Join(parts, " | ")
}

func (i deviceItem) FilterValue() string {
	return i.dev.Hostname + " " + i.dev.Address
}

// DevicePickerModel is a Bubble Tea model for selecting a device.
type DevicePickerModel struct {
	list     list.Model
	selected *device.Device
	quitting bool
}

type devicePickerKeyMap struct {
	Enter key.Binding
	Quit  key.Binding
}

var devicePickerKeys = devicePickerKeyMap{
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "cancel"),
	),
}

// NewDevicePickerModel creates a new device picker model.
func NewDevicePickerModel(devices []device.Device) DevicePickerModel {
	items := make([]list.Item, len(devices))
	for i, d := range devices {
		items[i] = deviceItem{dev: d}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color(string(ColorPrimary))).
		BorderForeground(lipgloss.Color(string(ColorSecondary)))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color(string(ColorMuted)))

	l := list.New(items, delegate, 80, 15)
	l.Title = "Select a device"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(string(ColorPrimary))).
		Bold(true).
		Padding(0, 0, 1, 0)
	l.Styles.HelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorMuted)))

	return DevicePickerModel{list: l}
}

// Init implements tea.Model.
func (m DevicePickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m DevicePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, devicePickerKeys.Enter):
			if item, ok := m.list.SelectedItem().(deviceItem); ok {
				dev := item.dev
				m.selected = &dev
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, devicePickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m DevicePickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Selected returns the selected device, or nil if cancelled.
func (m DevicePickerModel) Selected() *device.Device {
	return m.selected
}

// PickDevice displays an interactive device picker and returns the selected
// device. Returns nil if the user cancels (ESC/q/Ctrl+C).
func PickDevice(devices []device.Device) (*device.Device, error) {
	return PickDeviceWithOutput(devices, os.Stdout, os.Stdin)
}

// PickDeviceWithOutput displays the device picker using custom I/O.
func PickDeviceWithOutput(devices []device.Device, output io.Writer, input io.Reader) (*device.Device, error) {
	if len(devices) == 0 {
		return nil, errors.New(errors.ErrDiscover,
			"No devices to pick from",
			"Run 'skinsync scan' or add one with 'skinsync devices add'")
	}

	if len(devices) == 1 {
		// Only one device, no need to pick
		return &devices[0], nil
	}

	model := NewDevicePickerModel(devices)

	p := tea.NewProgram(
		model,
		tea.WithOutput(output),
		tea.WithInput(input),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDiscover,
			"Device picker failed",
			"Try again, or name the device directly: skinsync push <device>")
	}

	if m, ok := finalModel.(DevicePickerModel); ok {
		return m.Selected(), nil
	}

	return nil, nil
}

// IsTerminal returns true if the file descriptor is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
