package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgreer/chrono/internal/api"
	"github.com/mgreer/chrono/internal/domain"
	"github.com/mgreer/chrono/internal/notify"
)

const (
	// DefaultTickInterval is the cadence of local elapsed-time ticks
	DefaultTickInterval = time.Second

	// DefaultSyncInterval is the cadence of reconciliation against the
	// server's view of the active entry
	DefaultSyncInterval = 60 * time.Second

	// DefaultInactivityTimeout applies until the server settings have
	// been fetched
	DefaultInactivityTimeout = 30 * time.Minute

	// subscriberBuffer bounds each subscriber channel. A consumer that
	// falls this far behind starts missing intermediate states.
	subscriberBuffer = 64
)

// ErrClosed is returned for operations on a closed controller.
var ErrClosed = errors.New("timer controller is closed")

// Config tunes the controller's periodic work. Zero values fall back to
// the defaults above.
type Config struct {
	TickInterval      time.Duration
	SyncInterval      time.Duration
	InactivityTimeout time.Duration
}

// Controller owns the local timer state machine. It keeps one
// Idle/Running timer aligned with the remote authority, ticks elapsed
// time for display, reconciles drift on a fixed sync cadence, auto-stops
// on inactivity, and broadcasts every state change to subscribers.
//
// The server is always authoritative: committed durations come from the
// stop response, and sync overwrites any locally accumulated elapsed
// time.
type Controller struct {
	api      api.TimeEntryService
	clock    Clock
	activity ActivitySource
	notifier notify.Notifier
	logger   zerolog.Logger
	cfg      Config

	mu              sync.Mutex
	state           domain.TimerState
	inFlight        bool // one start/stop on the wire at a time
	lastActivity    time.Time
	lastAutoStopTry time.Time
	subscribers     map[int]chan domain.TimerState
	nextSubID       int
	closed          bool

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a controller and begins its background work: an initial
// check against the server (adopting any already-running entry), the
// per-second tick, the periodic sync, and the inactivity watchdog.
func New(svc api.TimeEntryService, activity ActivitySource, notifier notify.Notifier, cfg Config, logger zerolog.Logger) *Controller {
	return newWithClock(svc, activity, notifier, cfg, logger, RealClock{})
}

func newWithClock(svc api.TimeEntryService, activity ActivitySource, notifier notify.Notifier, cfg Config, logger zerolog.Logger, clock Clock) *Controller {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = DefaultSyncInterval
	}
	if cfg.InactivityTimeout <= 0 {
		cfg.InactivityTimeout = DefaultInactivityTimeout
	}

	c := &Controller{
		api:          svc,
		clock:        clock,
		activity:     activity,
		notifier:     notifier,
		logger:       logger.With().Str("component", "timer").Logger(),
		cfg:          cfg,
		lastActivity: clock.Now(),
		subscribers:  make(map[int]chan domain.TimerState),
		done:         make(chan struct{}),
	}

	c.wg.Add(1)
	go c.run()

	return c
}

// State returns a snapshot of the current timer state.
func (c *Controller) State() domain.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a consumer of the state stream. Every transition
// and every tick is broadcast to all subscribers. The returned cancel
// function detaches the subscriber and closes its channel.
func (c *Controller) Subscribe() (<-chan domain.TimerState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan domain.TimerState, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Start creates and starts a timer on the server, then transitions the
// local state to Running. It fails with domain.ErrConflict when a timer
// is already running or another start/stop is still in flight; a remote
// failure leaves local state untouched.
func (c *Controller) Start(ctx context.Context, taskID, description string, billable bool, tags []string) (*domain.TimeEntry, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.inFlight || c.state.Running {
		c.mu.Unlock()
		return nil, domain.ErrConflict
	}
	c.inFlight = true
	c.mu.Unlock()

	entry, err := c.api.StartTimer(ctx, api.StartTimerRequest{
		TaskID:      taskID,
		Description: description,
		Billable:    billable,
		Tags:        tags,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		return nil, err
	}
	if c.closed {
		return entry, nil
	}

	c.state = domain.TimerState{
		Running:        true,
		ActiveEntry:    entry,
		ElapsedSeconds: 0,
		LastSyncAt:     c.state.LastSyncAt,
	}
	c.lastActivity = c.clock.Now()
	c.broadcastLocked()

	c.logger.Info().Str("entry_id", entry.ID).Str("task_id", taskID).Msg("timer started")
	return entry, nil
}

// Stop stops the running timer on the server and transitions to Idle,
// returning the finalized entry with the server-computed duration. The
// locally ticked elapsed time is display-only and never committed. It
// fails with domain.ErrInvalidState when no timer is running and
// domain.ErrConflict while another start/stop is in flight.
func (c *Controller) Stop(ctx context.Context, dueToInactivity bool) (*domain.TimeEntry, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, domain.ErrConflict
	}
	if !c.state.Running || c.state.ActiveEntry == nil {
		c.mu.Unlock()
		return nil, domain.ErrInvalidState
	}
	entryID := c.state.ActiveEntry.ID
	c.inFlight = true
	c.mu.Unlock()

	entry, err := c.api.StopTimer(ctx, entryID, c.clock.Now())

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if c.closed {
		c.mu.Unlock()
		return entry, nil
	}

	c.state = domain.TimerState{
		Running:     false,
		ActiveEntry: nil,
		LastSyncAt:  c.state.LastSyncAt,
	}
	c.broadcastLocked()
	c.mu.Unlock()

	c.logger.Info().
		Str("entry_id", entry.ID).
		Bool("due_to_inactivity", dueToInactivity).
		Msg("timer stopped")

	if dueToInactivity && c.notifier != nil {
		c.notifier.Notify("Timer stopped", "Your timer was stopped after a period of inactivity.")
	}
	return entry, nil
}

// SyncNow forces an immediate reconciliation against the server,
// outside the periodic cadence. The returned state reflects the
// outcome; a failed sync leaves it unchanged.
func (c *Controller) SyncNow(ctx context.Context) (domain.TimerState, error) {
	entry, err := c.api.CurrentTimer(ctx)
	if err != nil {
		return c.State(), err
	}
	c.applySync(entry)
	return c.State(), nil
}

// Close deterministically tears the controller down: the tick, the
// sync, and the watchdog stop firing, the activity source is detached,
// and all subscriber channels are closed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subscribers {
		delete(c.subscribers, id)
		close(ch)
	}
}

// run is the controller's event loop. Ticks, syncs, activity signals,
// and the watchdog all execute here, serialized.
func (c *Controller) run() {
	defer c.wg.Done()

	c.bootstrap()

	tick := time.NewTicker(c.cfg.TickInterval)
	defer tick.Stop()
	syncTick := time.NewTicker(c.cfg.SyncInterval)
	defer syncTick.Stop()

	var activity <-chan struct{}
	if c.activity != nil {
		activity = c.activity.Events()
	}

	for {
		select {
		case <-c.done:
			return
		case <-activity:
			c.touch()
		case <-tick.C:
			c.tick()
			c.checkInactivity()
		case <-syncTick.C:
			c.syncOnce()
		}
	}
}

// bootstrap fetches the server settings and adopts any already-running
// entry. Failures are non-fatal; the next sync retries.
func (c *Controller) bootstrap() {
	ctx, cancel := c.opContext()
	defer cancel()

	if settings, err := c.api.Settings(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("failed to fetch settings, using default inactivity timeout")
	} else if settings.AutoStopTimerAfterInactivity > 0 {
		c.mu.Lock()
		c.cfg.InactivityTimeout = time.Duration(settings.AutoStopTimerAfterInactivity) * time.Minute
		c.mu.Unlock()
	}

	c.syncOnce()
}

// tick advances the displayed elapsed time by one interval.
func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Running || c.inFlight {
		return
	}
	c.state.ElapsedSeconds += int64(c.cfg.TickInterval / time.Second)
	c.broadcastLocked()
}

// touch resets the inactivity deadline.
func (c *Controller) touch() {
	c.mu.Lock()
	c.lastActivity = c.clock.Now()
	c.mu.Unlock()
}

// checkInactivity auto-stops a running timer once the inactivity
// deadline has passed. A failed auto-stop leaves the timer running and
// is retried after a sync interval.
func (c *Controller) checkInactivity() {
	c.mu.Lock()
	now := c.clock.Now()
	due := c.state.Running &&
		!c.inFlight &&
		now.Sub(c.lastActivity) >= c.cfg.InactivityTimeout &&
		now.Sub(c.lastAutoStopTry) >= c.cfg.SyncInterval
	if due {
		c.lastAutoStopTry = now
	}
	c.mu.Unlock()

	if !due {
		return
	}

	ctx, cancel := c.opContext()
	defer cancel()

	if _, err := c.Stop(ctx, true); err != nil {
		c.logger.Error().Err(err).Msg("inactivity auto-stop failed")
	}
}

// syncOnce reconciles local state against the server's view of the
// active entry. The server wins: a missing entry forces Idle, a present
// one has its elapsed time recomputed from the authoritative start
// time, discarding tick drift. Failures are logged and retried on the
// next interval.
func (c *Controller) syncOnce() {
	ctx, cancel := c.opContext()
	defer cancel()

	entry, err := c.api.CurrentTimer(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("sync failed")
		return
	}
	c.applySync(entry)
}

// applySync folds the server's active entry into local state.
func (c *Controller) applySync(entry *domain.TimeEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Never overwrite state mid-mutation; the next sync picks it up.
	if c.inFlight || c.closed {
		return
	}

	now := c.clock.Now()
	c.state.LastSyncAt = now

	if entry == nil {
		if c.state.Running {
			// Stopped server-side, possibly from another device
			c.logger.Info().Msg("server reports no active timer, forcing idle")
			c.state.Running = false
			c.state.ActiveEntry = nil
			c.state.ElapsedSeconds = 0
		}
		c.broadcastLocked()
		return
	}

	elapsed := int64(now.Sub(entry.StartTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	if !c.state.Running {
		// Entry started elsewhere or before this controller existed
		c.lastActivity = now
	}
	c.state.Running = true
	c.state.ActiveEntry = entry
	c.state.ElapsedSeconds = elapsed
	c.broadcastLocked()
}

// snapshotLocked copies the state so subscribers never share the live
// struct's entry pointer mutation window.
func (c *Controller) snapshotLocked() domain.TimerState {
	return c.state
}

// broadcastLocked fans the current state out to every subscriber.
// Sends never block the controller; a full subscriber just misses
// intermediate states.
func (c *Controller) broadcastLocked() {
	snapshot := c.snapshotLocked()
	for _, ch := range c.subscribers {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// opContext bounds internally initiated remote calls.
func (c *Controller) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}
