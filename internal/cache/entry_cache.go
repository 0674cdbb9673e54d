package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mgreer/chrono/internal/domain"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// EntryStore reads and writes cached time entries. The report service
// and the TUI dashboard depend on this interface rather than the
// concrete cache.
type EntryStore interface {
	Put(ctx context.Context, entries []*domain.TimeEntry) error
	Get(ctx context.Context, id string) (*domain.TimeEntry, error)
	List(ctx context.Context, from, to *time.Time, projectID string) ([]*domain.TimeEntry, error)
	Delete(ctx context.Context, id string) error
	Purge(ctx context.Context) error
}

// EntryCache is the SQLite implementation of EntryStore
type EntryCache struct {
	db *DB
}

// NewEntryCache creates a new EntryCache
func NewEntryCache(db *DB) *EntryCache {
	return &EntryCache{db: db}
}

// Put upserts server entries into the cache
func (c *EntryCache) Put(ctx context.Context, entries []*domain.TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cache transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO time_entries (
			id, task_id, project_id, user_id, description, start_time, end_time,
			duration_seconds, billable, billable_rate, invoice_id, tags, source,
			created_at, updated_at, fetched_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			task_id = excluded.task_id,
			project_id = excluded.project_id,
			user_id = excluded.user_id,
			description = excluded.description,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_seconds = excluded.duration_seconds,
			billable = excluded.billable,
			billable_rate = excluded.billable_rate,
			invoice_id = excluded.invoice_id,
			tags = excluded.tags,
			source = excluded.source,
			updated_at = excluded.updated_at,
			fetched_at = excluded.fetched_at
	`

	now := time.Now().Format(timeLayout)
	for _, entry := range entries {
		var endTime, durationSeconds, billableRate, invoiceID interface{}
		if entry.EndTime != nil {
			endTime = entry.EndTime.Format(timeLayout)
		}
		if entry.DurationSeconds != nil {
			durationSeconds = *entry.DurationSeconds
		}
		if entry.BillableRate != nil {
			billableRate = *entry.BillableRate
		}
		if entry.InvoiceID != nil {
			invoiceID = *entry.InvoiceID
		}

		tags, err := json.Marshal(entry.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags: %w", err)
		}

		_, err = tx.ExecContext(ctx, query,
			entry.ID,
			entry.TaskID,
			entry.ProjectID,
			entry.UserID,
			entry.Description,
			entry.StartTime.Format(timeLayout),
			endTime,
			durationSeconds,
			entry.Billable,
			billableRate,
			invoiceID,
			string(tags),
			string(entry.Source),
			entry.CreatedAt.Format(timeLayout),
			entry.UpdatedAt.Format(timeLayout),
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to cache entry %s: %w", entry.ID, err)
		}
	}

	return tx.Commit()
}

// Get retrieves one cached entry, or nil if it is not cached
func (c *EntryCache) Get(ctx context.Context, id string) (*domain.TimeEntry, error) {
	query := selectColumns + ` WHERE id = ?`

	entry, err := scanEntry(c.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached entry: %w", err)
	}
	return entry, nil
}

// List returns cached entries overlapping the given range, newest first
func (c *EntryCache) List(ctx context.Context, from, to *time.Time, projectID string) ([]*domain.TimeEntry, error) {
	query := selectColumns + ` WHERE 1=1`
	var args []interface{}

	if from != nil {
		query += ` AND start_time >= ?`
		args = append(args, from.Format(timeLayout))
	}
	if to != nil {
		query += ` AND start_time < ?`
		args = append(args, to.Format(timeLayout))
	}
	if projectID != "" {
		query += ` AND project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cached entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes one entry from the cache
func (c *EntryCache) Delete(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete cached entry: %w", err)
	}
	return nil
}

// Purge empties the cache
func (c *EntryCache) Purge(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM time_entries`); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, task_id, project_id, user_id, description, start_time, end_time,
	       duration_seconds, billable, billable_rate, invoice_id, tags, source,
	       created_at, updated_at
	FROM time_entries`

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row scanner) (*domain.TimeEntry, error) {
	entry := &domain.TimeEntry{}
	var startTime, createdAt, updatedAt, tags, source string
	var endTime, invoiceID sql.NullString
	var durationSeconds sql.NullInt64
	var billableRate sql.NullFloat64

	err := row.Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.ProjectID,
		&entry.UserID,
		&entry.Description,
		&startTime,
		&endTime,
		&durationSeconds,
		&entry.Billable,
		&billableRate,
		&invoiceID,
		&tags,
		&source,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if entry.StartTime, err = time.Parse(timeLayout, startTime); err != nil {
		return nil, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if endTime.Valid {
		t, err := time.Parse(timeLayout, endTime.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end_time: %w", err)
		}
		entry.EndTime = &t
	}
	if durationSeconds.Valid {
		d := durationSeconds.Int64
		entry.DurationSeconds = &d
	}
	if billableRate.Valid {
		r := billableRate.Float64
		entry.BillableRate = &r
	}
	if invoiceID.Valid {
		id := invoiceID.String
		entry.InvoiceID = &id
	}
	if err := json.Unmarshal([]byte(tags), &entry.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	entry.Source = domain.EntrySource(source)

	if entry.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if entry.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return entry, nil
}
