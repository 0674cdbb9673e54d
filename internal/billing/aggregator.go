// Package billing turns finalized time entries into priced invoice line
// item candidates. Everything here is pure: no network calls, no input
// mutation, and calling twice on the same input yields identical output.
package billing

import (
	"fmt"

	"github.com/mgreer/chrono/internal/domain"
)

// GroupBy selects how BuildLineItems partitions entries
type GroupBy string

const (
	GroupByNone    GroupBy = "none"
	GroupByProject GroupBy = "project"
	GroupByTask    GroupBy = "task"
)

// ComputeBillableAmount sums (hours * rate) over entries that are
// billable and carry a rate. Everything else contributes zero.
func ComputeBillableAmount(entries []*domain.TimeEntry) float64 {
	total := 0.0
	for _, e := range entries {
		if !e.Billable || e.BillableRate == nil {
			continue
		}
		total += entryHours(e) * *e.BillableRate
	}
	return total
}

// GroupByProjectID partitions entries by project id, preserving entry
// order within each group.
func GroupByProjectID(entries []*domain.TimeEntry) map[string][]*domain.TimeEntry {
	groups := make(map[string][]*domain.TimeEntry)
	for _, e := range entries {
		groups[e.ProjectID] = append(groups[e.ProjectID], e)
	}
	return groups
}

// GroupByTaskID partitions entries by task id, preserving entry order
// within each group.
func GroupByTaskID(entries []*domain.TimeEntry) map[string][]*domain.TimeEntry {
	groups := make(map[string][]*domain.TimeEntry)
	for _, e := range entries {
		groups[e.TaskID] = append(groups[e.TaskID], e)
	}
	return groups
}

// BuildLineItems produces candidate invoice line items from entries.
// Item IDs are left empty for the invoicing backend to assign. Entries
// already locked to an invoice never contribute.
//
// In grouped modes every billable entry's hours count toward the
// group's quantity, but only entries that also carry a rate add to its
// amount. The group rate is the blended amount/hours, so unrated
// billable hours dilute it. That asymmetry is deliberate and must not
// be "fixed" here.
func BuildLineItems(entries []*domain.TimeEntry, groupBy GroupBy) []domain.InvoiceItem {
	switch groupBy {
	case GroupByProject:
		return buildGrouped(entries, func(e *domain.TimeEntry) string { return e.ProjectID }, "project")
	case GroupByTask:
		return buildGrouped(entries, func(e *domain.TimeEntry) string { return e.TaskID }, "task")
	default:
		return buildFlat(entries)
	}
}

// buildFlat emits one line item per billable, rate-bearing entry.
func buildFlat(entries []*domain.TimeEntry) []domain.InvoiceItem {
	items := make([]domain.InvoiceItem, 0, len(entries))
	for _, e := range entries {
		if !e.Billable || e.BillableRate == nil || e.IsInvoiced() {
			continue
		}
		hours := entryHours(e)
		if hours == 0 {
			continue
		}
		items = append(items, domain.InvoiceItem{
			Description:  e.Description,
			Quantity:     hours,
			Rate:         *e.BillableRate,
			Amount:       hours * *e.BillableRate,
			TimeEntryIDs: []string{e.ID},
		})
	}
	return items
}

// buildGrouped partitions entries by key and emits one blended-rate
// item per group with billable hours.
func buildGrouped(entries []*domain.TimeEntry, keyOf func(*domain.TimeEntry) string, kind string) []domain.InvoiceItem {
	type group struct {
		key     string
		hours   float64
		amount  float64
		ids     []string
		entries []*domain.TimeEntry
	}

	var order []string
	groups := make(map[string]*group)
	for _, e := range entries {
		if !e.Billable || e.IsInvoiced() {
			continue
		}
		key := keyOf(e)
		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
			order = append(order, key)
		}
		hours := entryHours(e)
		g.hours += hours
		if e.BillableRate != nil {
			g.amount += hours * *e.BillableRate
		}
		g.ids = append(g.ids, e.ID)
		g.entries = append(g.entries, e)
	}

	items := make([]domain.InvoiceItem, 0, len(groups))
	for _, key := range order {
		g := groups[key]
		if g.hours == 0 {
			continue
		}
		items = append(items, domain.InvoiceItem{
			Description:  groupDescription(kind, g.key, g.entries),
			Quantity:     g.hours,
			Rate:         g.amount / g.hours,
			Amount:       g.amount,
			TimeEntryIDs: g.ids,
		})
	}
	return items
}

// groupDescription labels a grouped item. Falls back to the raw key
// when no entry has a description.
func groupDescription(kind, key string, entries []*domain.TimeEntry) string {
	for _, e := range entries {
		if e.Description != "" {
			return e.Description
		}
	}
	if key == "" {
		return fmt.Sprintf("Unassigned %s time", kind)
	}
	return fmt.Sprintf("Time tracked (%s %s)", kind, key)
}

// entryHours is the billing view of an entry's duration. Running
// entries (no end, no committed duration) contribute zero; billing only
// trusts server-finalized durations.
func entryHours(e *domain.TimeEntry) float64 {
	if e.DurationSeconds != nil {
		return float64(*e.DurationSeconds) / 3600.0
	}
	if e.EndTime != nil {
		return e.EndTime.Sub(e.StartTime).Hours()
	}
	return 0
}
