package domain

import (
	"errors"
	"time"
)

// EntrySource records how an entry was created
type EntrySource string

const (
	SourceTimer  EntrySource = "timer"
	SourceManual EntrySource = "manual"
)

// TimeEntry is one tracked interval of work. IDs are assigned by the
// server, never locally.
type TimeEntry struct {
	ID              string      `json:"id"`
	TaskID          string      `json:"taskId"`
	ProjectID       string      `json:"projectId"`
	UserID          string      `json:"userId"`
	Description     string      `json:"description"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         *time.Time  `json:"endTime"`      // nil while running
	DurationSeconds *int64      `json:"duration"`     // server-computed on stop, nil while running
	Billable        bool        `json:"billable"`
	BillableRate    *float64    `json:"billableRate"` // hourly, nil if none set
	InvoiceID       *string     `json:"invoiceId"`    // nil = unbilled
	Tags            []string    `json:"tags"`
	Source          EntrySource `json:"source"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// IsRunning returns true while the entry has no end time
func (e *TimeEntry) IsRunning() bool {
	return e.EndTime == nil
}

// IsInvoiced returns true once the entry is locked to an invoice.
// Invoiced entries must never be re-billed.
func (e *TimeEntry) IsInvoiced() bool {
	return e.InvoiceID != nil
}

// Duration returns the entry duration. For a running entry this is the
// time elapsed since start; for a stopped one the server-computed value.
func (e *TimeEntry) Duration() time.Duration {
	if e.DurationSeconds != nil {
		return time.Duration(*e.DurationSeconds) * time.Second
	}
	if e.EndTime != nil {
		return e.EndTime.Sub(e.StartTime)
	}
	return time.Since(e.StartTime)
}

// Hours returns the duration as fractional hours
func (e *TimeEntry) Hours() float64 {
	return e.Duration().Hours()
}

// Amount returns the billable value of the entry (hours * rate).
// Entries that are not billable or carry no rate are worth zero.
func (e *TimeEntry) Amount() float64 {
	if !e.Billable || e.BillableRate == nil {
		return 0
	}
	return e.Hours() * *e.BillableRate
}

// Validate returns an error if the entry is invalid
func (e *TimeEntry) Validate() error {
	if e.StartTime.IsZero() {
		return errors.New("start time is required")
	}
	if e.EndTime != nil && e.EndTime.Before(e.StartTime) {
		return errors.New("end time must be after start time")
	}
	if e.BillableRate != nil && *e.BillableRate < 0 {
		return errors.New("billable rate cannot be negative")
	}
	if e.Source == SourceManual && e.EndTime == nil {
		return errors.New("manual entries require an end time")
	}
	return nil
}
