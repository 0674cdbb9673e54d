package domain

import "time"

// TimerPhase is the coarse state of the local timer
type TimerPhase string

const (
	TimerIdle    TimerPhase = "idle"
	TimerRunning TimerPhase = "running"
)

// TimerState mirrors the authoritative timer plus local bookkeeping.
// It is ephemeral: rebuilt from the server on every sync and never the
// source of truth for billing.
type TimerState struct {
	Running        bool
	ActiveEntry    *TimeEntry // nil while idle
	ElapsedSeconds int64      // locally ticked, overwritten by sync
	LastSyncAt     time.Time  // zero until the first successful sync
}

// Phase returns the coarse state name
func (s TimerState) Phase() TimerPhase {
	if s.Running {
		return TimerRunning
	}
	return TimerIdle
}

// Elapsed returns the locally tracked elapsed time
func (s TimerState) Elapsed() time.Duration {
	return time.Duration(s.ElapsedSeconds) * time.Second
}
