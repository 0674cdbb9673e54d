package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgreer/chrono/internal/api"
	"github.com/mgreer/chrono/internal/domain"
)

// mock implementations

type mockAPI struct {
	entries   []*domain.TimeEntry
	listErr   error
	created   *domain.TimeEntry
	createErr error
	updated   *domain.TimeEntry
	deleteErr error
	deletedID string
}

func (m *mockAPI) StartTimer(ctx context.Context, req api.StartTimerRequest) (*domain.TimeEntry, error) {
	return nil, errors.New("not implemented")
}
func (m *mockAPI) StopTimer(ctx context.Context, entryID string, endTime time.Time) (*domain.TimeEntry, error) {
	return nil, errors.New("not implemented")
}
func (m *mockAPI) CurrentTimer(ctx context.Context) (*domain.TimeEntry, error) { return nil, nil }
func (m *mockAPI) Settings(ctx context.Context) (*api.Settings, error)         { return &api.Settings{}, nil }
func (m *mockAPI) ListEntries(ctx context.Context, filter api.EntryFilter) ([]*domain.TimeEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.entries, nil
}
func (m *mockAPI) CreateEntry(ctx context.Context, req api.CreateEntryRequest) (*domain.TimeEntry, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = &domain.TimeEntry{
		ID:          "created-1",
		TaskID:      req.TaskID,
		ProjectID:   req.ProjectID,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     &req.EndTime,
		Billable:    req.Billable,
		Source:      domain.SourceManual,
	}
	return m.created, nil
}
func (m *mockAPI) UpdateEntry(ctx context.Context, entryID string, req api.UpdateEntryRequest) (*domain.TimeEntry, error) {
	m.updated = &domain.TimeEntry{ID: entryID}
	if req.Description != nil {
		m.updated.Description = *req.Description
	}
	return m.updated, nil
}
func (m *mockAPI) DeleteEntry(ctx context.Context, entryID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedID = entryID
	return nil
}

type mockStore struct {
	entries map[string]*domain.TimeEntry
	putErr  error
	listErr error
}

func newMockStore() *mockStore {
	return &mockStore{entries: make(map[string]*domain.TimeEntry)}
}

func (m *mockStore) Put(ctx context.Context, entries []*domain.TimeEntry) error {
	if m.putErr != nil {
		return m.putErr
	}
	for _, e := range entries {
		m.entries[e.ID] = e
	}
	return nil
}
func (m *mockStore) Get(ctx context.Context, id string) (*domain.TimeEntry, error) {
	return m.entries[id], nil
}
func (m *mockStore) List(ctx context.Context, from, to *time.Time, projectID string) ([]*domain.TimeEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.TimeEntry
	for _, e := range m.entries {
		if projectID != "" && e.ProjectID != projectID {
			continue
		}
		if from != nil && e.StartTime.Before(*from) {
			continue
		}
		if to != nil && !e.StartTime.Before(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
func (m *mockStore) Delete(ctx context.Context, id string) error {
	delete(m.entries, id)
	return nil
}
func (m *mockStore) Purge(ctx context.Context) error {
	m.entries = make(map[string]*domain.TimeEntry)
	return nil
}

func testEntry(id string, start time.Time, hours float64) *domain.TimeEntry {
	secs := int64(hours * 3600)
	end := start.Add(time.Duration(secs) * time.Second)
	return &domain.TimeEntry{
		ID:              id,
		TaskID:          "task-1",
		ProjectID:       "p1",
		StartTime:       start,
		EndTime:         &end,
		DurationSeconds: &secs,
		Billable:        true,
	}
}

func TestRefreshCachesServerEntries(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	apiMock := &mockAPI{entries: []*domain.TimeEntry{testEntry("e1", start, 2)}}
	store := newMockStore()
	svc := NewEntryService(apiMock, store, zerolog.Nop())

	entries, stale, err := svc.Refresh(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if stale {
		t.Error("fresh server data must not be marked stale")
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if _, ok := store.entries["e1"]; !ok {
		t.Error("refresh must write entries through to the cache")
	}
}

func TestRefreshFallsBackToCacheWhenOffline(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMockStore()
	store.entries["e1"] = testEntry("e1", start, 2)
	apiMock := &mockAPI{listErr: &domain.RemoteError{Op: "list entries", Err: errors.New("connection refused")}}
	svc := NewEntryService(apiMock, store, zerolog.Nop())

	entries, stale, err := svc.Refresh(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Refresh should fall back, got %v", err)
	}
	if !stale {
		t.Error("cache fallback must be marked stale")
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Errorf("expected cached entry, got %v", entries)
	}
}

func TestRefreshReturnsServerErrorWhenCacheAlsoFails(t *testing.T) {
	serverErr := &domain.RemoteError{Op: "list entries", Err: errors.New("connection refused")}
	store := newMockStore()
	store.listErr = errors.New("cache corrupt")
	svc := NewEntryService(&mockAPI{listErr: serverErr}, store, zerolog.Nop())

	_, _, err := svc.Refresh(context.Background(), nil, nil)
	if !errors.Is(err, serverErr) {
		t.Errorf("expected the server error to surface, got %v", err)
	}
}

func TestRefreshCacheWriteFailureIsNonFatal(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMockStore()
	store.putErr = errors.New("disk full")
	apiMock := &mockAPI{entries: []*domain.TimeEntry{testEntry("e1", start, 2)}}
	svc := NewEntryService(apiMock, store, zerolog.Nop())

	entries, stale, err := svc.Refresh(context.Background(), nil, nil)
	if err != nil || stale {
		t.Fatalf("cache write failure must not block fresh data: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestCreateManualWritesThrough(t *testing.T) {
	store := newMockStore()
	apiMock := &mockAPI{}
	svc := NewEntryService(apiMock, store, zerolog.Nop())

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	entry, err := svc.CreateManual(context.Background(), api.CreateEntryRequest{
		TaskID:    "task-1",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateManual failed: %v", err)
	}
	if entry.Source != domain.SourceManual {
		t.Errorf("expected manual source, got %v", entry.Source)
	}
	if _, ok := store.entries[entry.ID]; !ok {
		t.Error("created entry must be cached")
	}
}

func TestDeleteRemovesFromCache(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMockStore()
	store.entries["e1"] = testEntry("e1", start, 2)
	apiMock := &mockAPI{}
	svc := NewEntryService(apiMock, store, zerolog.Nop())

	if err := svc.Delete(context.Background(), "e1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if apiMock.deletedID != "e1" {
		t.Error("delete must reach the server")
	}
	if _, ok := store.entries["e1"]; ok {
		t.Error("deleted entry must leave the cache")
	}
}

func TestDeleteServerFailureKeepsCache(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	store := newMockStore()
	store.entries["e1"] = testEntry("e1", start, 2)
	apiMock := &mockAPI{deleteErr: errors.New("forbidden")}
	svc := NewEntryService(apiMock, store, zerolog.Nop())

	if err := svc.Delete(context.Background(), "e1"); err == nil {
		t.Fatal("expected Delete to fail")
	}
	if _, ok := store.entries["e1"]; !ok {
		t.Error("cache must be untouched when the server delete fails")
	}
}
