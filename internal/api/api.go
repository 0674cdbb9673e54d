package api

import (
	"context"
	"time"

	"github.com/mgreer/chrono/internal/domain"
)

// StartTimerRequest carries the fields of a timer-originated entry
type StartTimerRequest struct {
	TaskID      string   `json:"taskId"`
	Description string   `json:"description"`
	Billable    bool     `json:"billable"`
	Tags        []string `json:"tags"`
}

// CreateEntryRequest creates a manual entry. EndTime is required; the
// server rejects manual entries without one.
type CreateEntryRequest struct {
	TaskID      string    `json:"taskId"`
	ProjectID   string    `json:"projectId"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Billable    bool      `json:"billable"`
	Tags        []string  `json:"tags"`
}

// UpdateEntryRequest patches mutable entry fields. Nil fields are left
// untouched.
type UpdateEntryRequest struct {
	Description  *string   `json:"description,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Billable     *bool     `json:"billable,omitempty"`
	BillableRate *float64  `json:"billableRate,omitempty"`
}

// EntryFilter narrows ListEntries results
type EntryFilter struct {
	From      *time.Time
	To        *time.Time
	ProjectID string
	TaskID    string
}

// Settings is the slice of user settings this client cares about
type Settings struct {
	AutoStopTimerAfterInactivity int `json:"autoStopTimerAfterInactivity"` // minutes, 0 = disabled
}

// TimeEntryService is the remote time-entry authority. The server owns
// entry identity, enforces the one-running-entry-per-user rule, and
// computes committed durations.
type TimeEntryService interface {
	// StartTimer creates and starts a timer entry, returned with a nil
	// end time.
	StartTimer(ctx context.Context, req StartTimerRequest) (*domain.TimeEntry, error)

	// StopTimer stops the given entry at endTime and returns it with the
	// server-computed duration set.
	StopTimer(ctx context.Context, entryID string, endTime time.Time) (*domain.TimeEntry, error)

	// CurrentTimer returns the caller's active entry, or nil with a nil
	// error when no timer is running.
	CurrentTimer(ctx context.Context) (*domain.TimeEntry, error)

	// Settings fetches the caller's timer settings.
	Settings(ctx context.Context) (*Settings, error)

	// ListEntries returns finalized and running entries matching filter.
	ListEntries(ctx context.Context, filter EntryFilter) ([]*domain.TimeEntry, error)

	// CreateEntry creates a manual entry.
	CreateEntry(ctx context.Context, req CreateEntryRequest) (*domain.TimeEntry, error)

	// UpdateEntry patches an entry.
	UpdateEntry(ctx context.Context, entryID string, req UpdateEntryRequest) (*domain.TimeEntry, error)

	// DeleteEntry deletes an entry.
	DeleteEntry(ctx context.Context, entryID string) error
}
