package service

import (
	"context"
	"time"

	"github.com/mgreer/chrono/internal/cache"
	"github.com/mgreer/chrono/internal/domain"
)

// WeekSummary provides weekly time tracking analytics
type WeekSummary struct {
	TotalHours    float64
	BillableHours float64
	TotalValue    float64
	ByProject     map[string]float64 // Hours by project ID
	ByDay         map[time.Weekday]float64
}

// ProjectSummary provides project-specific time and value analytics
type ProjectSummary struct {
	ProjectID     string
	TotalHours    float64
	BillableHours float64
	TotalValue    float64
	UnbilledValue float64
	Entries       []*domain.TimeEntry
}

// DailySummary provides daily time tracking analytics
type DailySummary struct {
	Date          time.Time
	TotalHours    float64
	BillableHours float64
	TotalValue    float64
	Entries       []*domain.TimeEntry
}

// ReportService provides aggregations over the cached entries
type ReportService interface {
	GetWeekSummary(ctx context.Context, weekStart time.Time) (*WeekSummary, error)
	GetProjectSummary(ctx context.Context, projectID string, start, end time.Time) (*ProjectSummary, error)
	GetDailySummary(ctx context.Context, date time.Time) (*DailySummary, error)

	// GetUnbilledTotal is the value of billable time not yet invoiced
	GetUnbilledTotal(ctx context.Context) (float64, error)
}

type reportService struct {
	store cache.EntryStore
}

// NewReportService creates a new report service
func NewReportService(store cache.EntryStore) ReportService {
	return &reportService{store: store}
}

func (s *reportService) GetWeekSummary(ctx context.Context, weekStart time.Time) (*WeekSummary, error) {
	// Ensure weekStart is actually a Monday (start of week)
	for weekStart.Weekday() != time.Monday {
		weekStart = weekStart.AddDate(0, 0, -1)
	}
	weekEnd := weekStart.AddDate(0, 0, 7)

	entries, err := s.store.List(ctx, &weekStart, &weekEnd, "")
	if err != nil {
		return nil, err
	}

	summary := &WeekSummary{
		ByProject: make(map[string]float64),
		ByDay:     make(map[time.Weekday]float64),
	}

	for _, entry := range entries {
		hours := entry.Hours()
		value := entry.Amount()

		summary.TotalHours += hours
		if entry.Billable {
			summary.BillableHours += hours
		}
		summary.TotalValue += value

		summary.ByProject[entry.ProjectID] += hours
		summary.ByDay[entry.StartTime.Weekday()] += hours
	}

	return summary, nil
}

func (s *reportService) GetProjectSummary(
	ctx context.Context,
	projectID string,
	start, end time.Time,
) (*ProjectSummary, error) {
	entries, err := s.store.List(ctx, &start, &end, projectID)
	if err != nil {
		return nil, err
	}

	summary := &ProjectSummary{
		ProjectID: projectID,
		Entries:   entries,
	}

	for _, entry := range entries {
		hours := entry.Hours()
		value := entry.Amount()

		summary.TotalHours += hours
		if entry.Billable {
			summary.BillableHours += hours
		}
		summary.TotalValue += value

		if !entry.IsInvoiced() && entry.Billable {
			summary.UnbilledValue += value
		}
	}

	return summary, nil
}

func (s *reportService) GetDailySummary(ctx context.Context, date time.Time) (*DailySummary, error) {
	// Normalize to start of day
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	entries, err := s.store.List(ctx, &startOfDay, &endOfDay, "")
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{
		Date:    date,
		Entries: entries,
	}

	for _, entry := range entries {
		hours := entry.Hours()
		value := entry.Amount()

		summary.TotalHours += hours
		if entry.Billable {
			summary.BillableHours += hours
		}
		summary.TotalValue += value
	}

	return summary, nil
}

func (s *reportService) GetUnbilledTotal(ctx context.Context) (float64, error) {
	entries, err := s.store.List(ctx, nil, nil, "")
	if err != nil {
		return 0, err
	}

	total := 0.0
	for _, entry := range entries {
		if !entry.IsInvoiced() && entry.Billable {
			total += entry.Amount()
		}
	}

	return total, nil
}
