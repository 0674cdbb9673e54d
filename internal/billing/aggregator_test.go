package billing

import (
	"math"
	"testing"
	"time"

	"github.com/mgreer/chrono/internal/domain"
)

func ptrFloat(f float64) *float64 { return &f }
func ptrInt64(i int64) *int64     { return &i }
func ptrStr(s string) *string     { return &s }

func entry(id, taskID, projectID string, hours float64, billable bool, rate *float64) *domain.TimeEntry {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	secs := int64(hours * 3600)
	end := start.Add(time.Duration(secs) * time.Second)
	return &domain.TimeEntry{
		ID:              id,
		TaskID:          taskID,
		ProjectID:       projectID,
		Description:     "work on " + taskID,
		StartTime:       start,
		EndTime:         &end,
		DurationSeconds: &secs,
		Billable:        billable,
		BillableRate:    rate,
		Source:          domain.SourceTimer,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestComputeBillableAmount(t *testing.T) {
	entries := []*domain.TimeEntry{
		entry("e1", "t1", "p1", 2.0, true, ptrFloat(100)),
		entry("e2", "t2", "p1", 1.0, true, nil),       // billable but unrated
		entry("e3", "t3", "p2", 3.0, false, ptrFloat(50)), // not billable
	}

	got := ComputeBillableAmount(entries)
	if !almostEqual(got, 200) {
		t.Errorf("expected 200, got %f", got)
	}
}

func TestBuildLineItemsFlat(t *testing.T) {
	entries := []*domain.TimeEntry{
		entry("e1", "t1", "p1", 2.0, true, ptrFloat(100)),
		entry("e2", "t2", "p1", 1.5, true, ptrFloat(80)),
		entry("e3", "t3", "p1", 1.0, true, nil),           // unrated: no flat item
		entry("e4", "t4", "p1", 1.0, false, ptrFloat(50)), // not billable
	}

	items := BuildLineItems(entries, GroupByNone)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	if items[0].Quantity != 2.0 || items[0].Rate != 100 || !almostEqual(items[0].Amount, 200) {
		t.Errorf("item 0 wrong: %+v", items[0])
	}
	if items[1].Quantity != 1.5 || items[1].Rate != 80 || !almostEqual(items[1].Amount, 120) {
		t.Errorf("item 1 wrong: %+v", items[1])
	}
	if len(items[0].TimeEntryIDs) != 1 || items[0].TimeEntryIDs[0] != "e1" {
		t.Errorf("item 0 should reference e1, got %v", items[0].TimeEntryIDs)
	}
	if items[0].ID != "" {
		t.Errorf("item IDs are assigned by the invoicing backend, got %q", items[0].ID)
	}
}

func TestBuildLineItemsFlatSkipsInvoiced(t *testing.T) {
	locked := entry("e1", "t1", "p1", 2.0, true, ptrFloat(100))
	locked.InvoiceID = ptrStr("inv-9")

	items := BuildLineItems([]*domain.TimeEntry{locked}, GroupByNone)
	if len(items) != 0 {
		t.Errorf("invoiced entries must not produce items, got %d", len(items))
	}
}

func TestBuildLineItemsFlatSkipsRunning(t *testing.T) {
	running := entry("e1", "t1", "p1", 2.0, true, ptrFloat(100))
	running.EndTime = nil
	running.DurationSeconds = nil

	items := BuildLineItems([]*domain.TimeEntry{running}, GroupByNone)
	if len(items) != 0 {
		t.Errorf("running entries have zero hours and must be skipped, got %d", len(items))
	}
}

// Unrated billable hours count toward a group's quantity but not its
// amount, so the blended rate comes out below the nominal rate.
func TestBuildLineItemsGroupedBlendedRate(t *testing.T) {
	entries := []*domain.TimeEntry{
		entry("e1", "t1", "p1", 2.0, true, ptrFloat(100)), // 200.00
		entry("e2", "t2", "p1", 1.0, true, nil),           // hours only
	}

	items := BuildLineItems(entries, GroupByProject)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if !almostEqual(item.Quantity, 3.0) {
		t.Errorf("expected 3.0 hours, got %f", item.Quantity)
	}
	if !almostEqual(item.Amount, 200) {
		t.Errorf("expected amount 200, got %f", item.Amount)
	}
	if !almostEqual(item.Rate, 200.0/3.0) {
		t.Errorf("expected blended rate %.4f, got %f", 200.0/3.0, item.Rate)
	}
	if len(item.TimeEntryIDs) != 2 {
		t.Errorf("expected both entries referenced, got %v", item.TimeEntryIDs)
	}
}

func TestBuildLineItemsGroupedByProjectPreservesOrder(t *testing.T) {
	entries := []*domain.TimeEntry{
		entry("e1", "t1", "p-beta", 1.0, true, ptrFloat(100)),
		entry("e2", "t2", "p-alpha", 1.0, true, ptrFloat(100)),
		entry("e3", "t3", "p-beta", 2.0, true, ptrFloat(100)),
	}

	items := BuildLineItems(entries, GroupByProject)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// Groups appear in first-seen order, not sorted by key
	if items[0].TimeEntryIDs[0] != "e1" {
		t.Errorf("expected p-beta group first, got %v", items[0].TimeEntryIDs)
	}
	if !almostEqual(items[0].Quantity, 3.0) {
		t.Errorf("expected p-beta to have 3.0 hours, got %f", items[0].Quantity)
	}
	if !almostEqual(items[1].Quantity, 1.0) {
		t.Errorf("expected p-alpha to have 1.0 hours, got %f", items[1].Quantity)
	}
}

func TestBuildLineItemsGroupedByTask(t *testing.T) {
	entries := []*domain.TimeEntry{
		entry("e1", "t1", "p1", 1.0, true, ptrFloat(90)),
		entry("e2", "t1", "p2", 2.0, true, ptrFloat(90)),
		entry("e3", "t2", "p1", 1.0, false, ptrFloat(90)), // not billable
	}

	items := BuildLineItems(entries, GroupByTask)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if !almostEqual(items[0].Quantity, 3.0) || !almostEqual(items[0].Amount, 270) {
		t.Errorf("task group wrong: %+v", items[0])
	}
}

func TestBuildLineItemsGroupedSkipsZeroHourGroups(t *testing.T) {
	running := entry("e1", "t1", "p1", 0, true, ptrFloat(100))
	running.EndTime = nil
	running.DurationSeconds = nil

	items := BuildLineItems([]*domain.TimeEntry{running}, GroupByProject)
	if len(items) != 0 {
		t.Errorf("zero-hour group must be dropped, got %d items", len(items))
	}
}

func TestBuildLineItemsDeterministic(t *testing.T) {
	entries := []*domain.TimeEntry{
		entry("e1", "t1", "p1", 2.0, true, ptrFloat(100)),
		entry("e2", "t2", "p2", 1.0, true, ptrFloat(50)),
		entry("e3", "t3", "p1", 0.5, true, nil),
	}

	first := BuildLineItems(entries, GroupByProject)
	second := BuildLineItems(entries, GroupByProject)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Description != second[i].Description ||
			first[i].Quantity != second[i].Quantity ||
			first[i].Amount != second[i].Amount {
			t.Errorf("item %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestEntryHoursPrefersCommittedDuration(t *testing.T) {
	e := entry("e1", "t1", "p1", 2.0, true, ptrFloat(100))
	// Committed duration disagrees with the end-start window; the
	// committed value wins.
	e.DurationSeconds = ptrInt64(5400)

	if got := entryHours(e); !almostEqual(got, 1.5) {
		t.Errorf("expected 1.5 hours from committed duration, got %f", got)
	}
}

func TestGroupDescription(t *testing.T) {
	noDesc := entry("e1", "t1", "", 1.0, true, ptrFloat(100))
	noDesc.Description = ""

	items := BuildLineItems([]*domain.TimeEntry{noDesc}, GroupByProject)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Description != "Unassigned project time" {
		t.Errorf("unexpected description: %q", items[0].Description)
	}
}
