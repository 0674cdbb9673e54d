package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgreer/chrono/internal/api"
	"github.com/mgreer/chrono/internal/cache"
	"github.com/mgreer/chrono/internal/domain"
)

// EntryService fronts the remote entry surface with a write-through
// local cache, so listings and reports degrade gracefully when the
// server is unreachable.
type EntryService interface {
	// Refresh pulls entries in the range from the server and caches
	// them. On a remote failure it falls back to cached data and
	// reports stale=true.
	Refresh(ctx context.Context, from, to *time.Time) (entries []*domain.TimeEntry, stale bool, err error)

	// ListLocal reads entries straight from the cache.
	ListLocal(ctx context.Context, from, to *time.Time, projectID string) ([]*domain.TimeEntry, error)

	// CreateManual creates a manual entry on the server and caches it.
	CreateManual(ctx context.Context, req api.CreateEntryRequest) (*domain.TimeEntry, error)

	// Update patches an entry on the server and refreshes the cached copy.
	Update(ctx context.Context, entryID string, req api.UpdateEntryRequest) (*domain.TimeEntry, error)

	// Delete removes an entry on the server and from the cache.
	Delete(ctx context.Context, entryID string) error
}

type entryService struct {
	api    api.TimeEntryService
	store  cache.EntryStore
	logger zerolog.Logger
}

// NewEntryService creates a new entry service
func NewEntryService(apiClient api.TimeEntryService, store cache.EntryStore, logger zerolog.Logger) EntryService {
	return &entryService{
		api:    apiClient,
		store:  store,
		logger: logger.With().Str("component", "entries").Logger(),
	}
}

func (s *entryService) Refresh(ctx context.Context, from, to *time.Time) ([]*domain.TimeEntry, bool, error) {
	entries, err := s.api.ListEntries(ctx, api.EntryFilter{From: from, To: to})
	if err != nil {
		s.logger.Warn().Err(err).Msg("server unreachable, serving cached entries")
		cached, cacheErr := s.store.List(ctx, from, to, "")
		if cacheErr != nil {
			return nil, false, err
		}
		return cached, true, nil
	}

	if err := s.store.Put(ctx, entries); err != nil {
		// Cache failures never block the fresh server data
		s.logger.Warn().Err(err).Msg("failed to cache entries")
	}
	return entries, false, nil
}

func (s *entryService) ListLocal(ctx context.Context, from, to *time.Time, projectID string) ([]*domain.TimeEntry, error) {
	return s.store.List(ctx, from, to, projectID)
}

func (s *entryService) CreateManual(ctx context.Context, req api.CreateEntryRequest) (*domain.TimeEntry, error) {
	entry, err := s.api.CreateEntry(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, []*domain.TimeEntry{entry}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache created entry")
	}
	return entry, nil
}

func (s *entryService) Update(ctx context.Context, entryID string, req api.UpdateEntryRequest) (*domain.TimeEntry, error) {
	entry, err := s.api.UpdateEntry(ctx, entryID, req)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, []*domain.TimeEntry{entry}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache updated entry")
	}
	return entry, nil
}

func (s *entryService) Delete(ctx context.Context, entryID string) error {
	if err := s.api.DeleteEntry(ctx, entryID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, entryID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to drop deleted entry from cache")
	}
	return nil
}
