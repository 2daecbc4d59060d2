// Package redirect decides what a launch signal asks the main screen to do.
//
// A Signal is the data accompanying an activation of the main screen: the
// initial start, or a later re-activation such as opening a push
// notification. It may carry a redirect target naming a channel that should
// be opened immediately. Targets are single use: once a navigation has been
// emitted for a signal, resolving the same signal again yields ActionNone.
package redirect

import "fmt"

// Flag is a bit set describing how the screen was launched.
type Flag uint8

const (
	// FlagLaunchedFromHistory is set when the screen is brought back from
	// the task switcher rather than by a fresh notification.
	FlagLaunchedFromHistory Flag = 1 << iota
)

// Signal is an activation signal.
type Signal struct {
	Flags  Flag
	target string
	has    bool
}

// NewSignal returns a signal with the given flags and no redirect target.
func NewSignal(flags Flag) *Signal {
	return &Signal{Flags: flags}
}

// NewRedirectSignal builds the signal produced by tapping a push
// notification for channelURL.
func NewRedirectSignal(channelURL string) *Signal {
	s := &Signal{}
	s.SetRedirect(channelURL)
	return s
}

// HasFlag reports whether f is set.
func (s *Signal) HasFlag(f Flag) bool {
	return s != nil && s.Flags&f == f
}

// SetRedirect stores a redirect target. An empty URL removes it.
func (s *Signal) SetRedirect(channelURL string) {
	if channelURL == "" {
		s.RemoveRedirect()
		return
	}
	s.target = channelURL
	s.has = true
}

// Redirect returns the redirect target, if any.
func (s *Signal) Redirect() (string, bool) {
	if s == nil {
		return "", false
	}
	return s.target, s.has
}

// RemoveRedirect drops the redirect target.
func (s *Signal) RemoveRedirect() {
	if s == nil {
		return
	}
	s.target = ""
	s.has = false
}

// ActionKind enumerates resolver outcomes.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionClearRedirect
	ActionNavigate
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "None"
	case ActionClearRedirect:
		return "ClearRedirect"
	case ActionNavigate:
		return "NavigateTo"
	default:
		return "Unknown"
	}
}

// Action is the result of resolving a signal.
type Action struct {
	Kind       ActionKind
	ChannelURL string
}

func (a Action) String() string {
	if a.Kind == ActionNavigate {
		return fmt.Sprintf("%s(%s)", a.Kind, a.ChannelURL)
	}
	return a.Kind.String()
}

// None is the no-op action.
var None = Action{Kind: ActionNone}

// ClearRedirect is returned when a stale redirect was dropped.
var ClearRedirect = Action{Kind: ActionClearRedirect}

// NavigateTo returns a navigation action.
func NavigateTo(channelURL string) Action {
	return Action{Kind: ActionNavigate, ChannelURL: channelURL}
}

// Resolve decides what incoming asks for.
//
// current is the signal the screen was originally created with and incoming
// is the signal of this activation; on first creation they are the same
// value. When incoming carries FlagLaunchedFromHistory the redirect target is
// removed from current, not from incoming.
//
// A navigation consumes the target of incoming.
func Resolve(current, incoming *Signal) Action {
	if incoming == nil {
		return None
	}
	if incoming.HasFlag(FlagLaunchedFromHistory) {
		// incoming keeps its target.
		current.RemoveRedirect()
		return ClearRedirect
	}
	target, ok := incoming.Redirect()
	if !ok {
		return None
	}
	incoming.RemoveRedirect()
	return NavigateTo(target)
}
