package domain

import (
	"testing"
	"time"
)

func TestDurationPrefersServerValue(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	secs := int64(5400) // server committed 1.5h despite the 2h window

	e := &TimeEntry{StartTime: start, EndTime: &end, DurationSeconds: &secs}
	if got := e.Duration(); got != 90*time.Minute {
		t.Errorf("expected 90m from the committed duration, got %v", got)
	}

	e.DurationSeconds = nil
	if got := e.Duration(); got != 2*time.Hour {
		t.Errorf("expected 2h from the end-start window, got %v", got)
	}
}

func TestIsRunning(t *testing.T) {
	e := &TimeEntry{StartTime: time.Now().Add(-time.Hour)}
	if !e.IsRunning() {
		t.Error("entry without an end time should be running")
	}
	end := time.Now()
	e.EndTime = &end
	if e.IsRunning() {
		t.Error("entry with an end time should not be running")
	}
}

func TestAmount(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	secs := int64(7200)
	rate := 150.0

	e := &TimeEntry{StartTime: start, DurationSeconds: &secs, Billable: true, BillableRate: &rate}
	if got := e.Amount(); got != 300 {
		t.Errorf("expected 300, got %f", got)
	}

	e.Billable = false
	if got := e.Amount(); got != 0 {
		t.Errorf("non-billable entries are worth zero, got %f", got)
	}

	e.Billable = true
	e.BillableRate = nil
	if got := e.Amount(); got != 0 {
		t.Errorf("unrated entries are worth zero, got %f", got)
	}
}

func TestValidate(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	badEnd := start.Add(-time.Hour)
	negRate := -10.0

	tests := []struct {
		name    string
		entry   TimeEntry
		wantErr bool
	}{
		{"valid timer entry", TimeEntry{StartTime: start, Source: SourceTimer}, false},
		{"valid manual entry", TimeEntry{StartTime: start, EndTime: &end, Source: SourceManual}, false},
		{"missing start", TimeEntry{Source: SourceTimer}, true},
		{"end before start", TimeEntry{StartTime: start, EndTime: &badEnd}, true},
		{"negative rate", TimeEntry{StartTime: start, BillableRate: &negRate}, true},
		{"manual without end", TimeEntry{StartTime: start, Source: SourceManual}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
