package tui

import "github.com/mgreer/chrono/internal/domain"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// TimerStateMsg carries a timer state snapshot from the controller's
// subscription stream. The root model re-arms the stream reader after
// each one, so ticks arrive roughly once per second while running.
type TimerStateMsg struct {
	State domain.TimerState
}

// timerStreamClosedMsg is sent when the controller shuts down the
// subscription channel
type timerStreamClosedMsg struct{}

// NotificationMsg surfaces an out-of-band notification (e.g. the timer
// being auto-stopped after inactivity) inside the TUI
type NotificationMsg struct {
	Title string
	Body  string
}
