package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/mgreer/chrono/internal/api"
	"github.com/mgreer/chrono/internal/cache"
	"github.com/mgreer/chrono/internal/config"
	"github.com/mgreer/chrono/internal/keychain"
	"github.com/mgreer/chrono/internal/notify"
	"github.com/mgreer/chrono/internal/service"
	"github.com/mgreer/chrono/internal/timer"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Cache  *cache.DB

	// Infrastructure
	API        api.TimeEntryService
	EntryCache cache.EntryStore
	Keychain   keychain.Store
	Activity   *timer.ChannelSource
	Notifier   *notify.Dispatcher

	// Core
	Timer *timer.Controller

	// Services
	EntryService  service.EntryService
	ReportService service.ReportService
}

// New creates a new App instance, initializing all dependencies
// It handles:
// 1. Loading config
// 2. Getting the API token and cache key from the keyring
// 3. Opening the encrypted entry cache
// 4. Creating the API client and services
// 5. Starting the timer controller
func New(logger zerolog.Logger) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(cfg, logger)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	store := keychain.NewStore()

	token, err := store.Get(keychain.TokenName)
	if err != nil {
		// No token stored yet, prompt for one
		fmt.Printf("Connecting to %s for the first time.\n", cfg.Server.BaseURL)
		token, err = promptForToken()
		if err != nil {
			return nil, fmt.Errorf("failed to read API token: %w", err)
		}
		if err := store.Set(keychain.TokenName, token); err != nil {
			return nil, fmt.Errorf("failed to store API token: %w", err)
		}
	}

	cacheKey, err := store.Get(keychain.CacheKeyName)
	if err != nil {
		// First run: generate a key for the local cache
		cacheKey, err = generateCacheKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate cache key: %w", err)
		}
		if err := store.Set(keychain.CacheKeyName, cacheKey); err != nil {
			return nil, fmt.Errorf("failed to store cache key: %w", err)
		}
	}

	cacheDB, err := cache.Open(cfg.Cache.Path, cacheKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open entry cache: %w", err)
	}
	entryCache := cache.NewEntryCache(cacheDB)

	apiClient := api.NewClient(cfg.Server.BaseURL, token, cfg.Server.RequestTimeout, logger)

	activity := timer.NewChannelSource()
	notifier := notify.NewDispatcher(notify.NewLogNotifier(logger))

	controller := timer.New(apiClient, activity, notifier, timer.Config{
		TickInterval:      cfg.Timer.TickInterval,
		SyncInterval:      cfg.Timer.SyncInterval,
		InactivityTimeout: cfg.InactivityTimeout(),
	}, logger)

	entryService := service.NewEntryService(apiClient, entryCache, logger)
	reportService := service.NewReportService(entryCache)

	return &App{
		Config:        cfg,
		Logger:        logger,
		Cache:         cacheDB,
		API:           apiClient,
		EntryCache:    entryCache,
		Keychain:      store,
		Activity:      activity,
		Notifier:      notifier,
		Timer:         controller,
		EntryService:  entryService,
		ReportService: reportService,
	}, nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.Timer != nil {
		a.Timer.Close()
	}
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// promptForToken reads an API token without echoing it
func promptForToken() (string, error) {
	fmt.Print("Enter your API token: ")

	token, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after input
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	if len(token) == 0 {
		return "", fmt.Errorf("token cannot be empty")
	}

	return string(token), nil
}

// generateCacheKey creates a random key for cache encryption
func generateCacheKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
