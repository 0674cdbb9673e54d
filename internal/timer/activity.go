package timer

// ActivitySource delivers user-activity signals to the inactivity
// watchdog. The TUI feeds one from key and mouse input; tests use a
// plain channel.
type ActivitySource interface {
	// Events returns a channel that receives a value on every observed
	// user action. The channel stays open for the source's lifetime.
	Events() <-chan struct{}
}

// ChannelSource is an ActivitySource backed by a buffered channel that
// producers push into via Touch.
type ChannelSource struct {
	ch chan struct{}
}

// NewChannelSource creates a ChannelSource.
func NewChannelSource() *ChannelSource {
	return &ChannelSource{ch: make(chan struct{}, 16)}
}

// Touch records one user action. Drops the signal if the watchdog is
// behind; activity signals are level, not counted.
func (s *ChannelSource) Touch() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Events implements ActivitySource.
func (s *ChannelSource) Events() <-chan struct{} {
	return s.ch
}
