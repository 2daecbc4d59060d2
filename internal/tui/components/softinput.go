package components

import (
	"grouptalk/pkg/logging"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const softInputSubsystem = "SoftInput"

// SoftInputMode decides what happens to the text entry cursor when a
// screen with an input opens.
type SoftInputMode int

const (
	// SoftInputUnspecified leaves the input as it was.
	SoftInputUnspecified SoftInputMode = iota
	// SoftInputStateVisible focuses the input on open.
	SoftInputStateVisible
	// SoftInputStateHidden keeps the input blurred until the user asks for it.
	SoftInputStateHidden
)

func (m SoftInputMode) String() string {
	switch m {
	case SoftInputStateVisible:
		return "visible"
	case SoftInputStateHidden:
		return "hidden"
	default:
		return "unspecified"
	}
}

// Next cycles through the modes, for settings toggles.
func (m SoftInputMode) Next() SoftInputMode {
	return (m + 1) % 3
}

// ShowSoftInput focuses input and returns its cursor blink command. It never
// panics; a failure is logged and nil returned.
func ShowSoftInput(input *textinput.Model) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn(softInputSubsystem, "show soft input: %v", r)
			cmd = nil
		}
	}()
	if input == nil {
		return nil
	}
	return input.Focus()
}

// HideSoftInput blurs input. It never panics.
func HideSoftInput(input *textinput.Model) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn(softInputSubsystem, "hide soft input: %v", r)
		}
	}()
	if input == nil {
		return
	}
	input.Blur()
}

// ApplySoftInputMode applies mode to input as a screen opens.
func ApplySoftInputMode(mode SoftInputMode, input *textinput.Model) tea.Cmd {
	switch mode {
	case SoftInputStateVisible:
		return ShowSoftInput(input)
	case SoftInputStateHidden:
		HideSoftInput(input)
	}
	return nil
}
