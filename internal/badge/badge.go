// Package badge decides how an unread count is shown on a tab badge.
package badge

import "strconv"

const (
	// DefaultMaxCount is the largest count shown verbatim.
	DefaultMaxCount = 99
	// DefaultOverflowLabel is shown when the count exceeds the max.
	DefaultOverflowLabel = "99+"
)

// State is the derived presentation of a badge.
type State struct {
	Visible bool
	Text    string
}

// Renderer turns counts into badge states.
type Renderer struct {
	MaxCount      int
	OverflowLabel string
}

// NewRenderer returns a Renderer. Non-positive max or an empty label fall back to the defaults.
func NewRenderer(maxCount int, overflowLabel string) Renderer {
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	if overflowLabel == "" {
		overflowLabel = DefaultOverflowLabel
	}
	return Renderer{MaxCount: maxCount, OverflowLabel: overflowLabel}
}

// Render computes the badge state for count.
func (r Renderer) Render(count int) State {
	if count <= 0 {
		return State{}
	}
	maxCount := r.MaxCount
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}
	if count > maxCount {
		label := r.OverflowLabel
		if label == "" {
			label = DefaultOverflowLabel
		}
		return State{Visible: true, Text: label}
	}
	return State{Visible: true, Text: strconv.Itoa(count)}
}

// Render uses the default renderer.
func Render(count int) State {
	return NewRenderer(DefaultMaxCount, DefaultOverflowLabel).Render(count)
}
