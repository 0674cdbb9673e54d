package notify

import "github.com/rs/zerolog"

// Notifier shows a user-facing notification. Implementations decide the
// surface: log line, TUI status message, desktop notification.
type Notifier interface {
	Notify(title, body string)
}

// LogNotifier writes notifications to the log. Used by headless CLI
// commands where no richer surface exists.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "notify").Logger()}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(title, body string) {
	n.logger.Info().Str("title", title).Msg(body)
}

// Func adapts a function to the Notifier interface.
type Func func(title, body string)

// Notify implements Notifier.
func (f Func) Notify(title, body string) {
	f(title, body)
}
