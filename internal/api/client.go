package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mgreer/chrono/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client talks to the practice-management time-entry API over HTTP
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the server at baseURL, authenticating
// with the given bearer token.
func NewClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "api-client").Logger(),
	}
}

func (c *Client) StartTimer(ctx context.Context, req StartTimerRequest) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	if err := c.do(ctx, "start timer", http.MethodPost, "/api/time-entries/start", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) StopTimer(ctx context.Context, entryID string, endTime time.Time) (*domain.TimeEntry, error) {
	body := struct {
		EndTime time.Time `json:"endTime"`
	}{EndTime: endTime}

	path := "/api/time-entries/" + url.PathEscape(entryID) + "/stop"
	var entry domain.TimeEntry
	if err := c.do(ctx, "stop timer", http.MethodPost, path, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) CurrentTimer(ctx context.Context) (*domain.TimeEntry, error) {
	// The server answers 200 with a JSON null body when nothing is
	// running, so decode into a pointer.
	var entry *domain.TimeEntry
	if err := c.do(ctx, "get current timer", http.MethodGet, "/api/time-entries/current", nil, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := c.do(ctx, "get settings", http.MethodGet, "/api/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Client) ListEntries(ctx context.Context, filter EntryFilter) ([]*domain.TimeEntry, error) {
	q := url.Values{}
	if filter.From != nil {
		q.Set("from", filter.From.Format(time.RFC3339))
	}
	if filter.To != nil {
		q.Set("to", filter.To.Format(time.RFC3339))
	}
	if filter.ProjectID != "" {
		q.Set("projectId", filter.ProjectID)
	}
	if filter.TaskID != "" {
		q.Set("taskId", filter.TaskID)
	}

	path := "/api/time-entries"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var entries []*domain.TimeEntry
	if err := c.do(ctx, "list entries", http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreateEntry(ctx context.Context, req CreateEntryRequest) (*domain.TimeEntry, error) {
	var entry domain.TimeEntry
	if err := c.do(ctx, "create entry", http.MethodPost, "/api/time-entries", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) UpdateEntry(ctx context.Context, entryID string, req UpdateEntryRequest) (*domain.TimeEntry, error) {
	path := "/api/time-entries/" + url.PathEscape(entryID)
	var entry domain.TimeEntry
	if err := c.do(ctx, "update entry", http.MethodPatch, path, req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) DeleteEntry(ctx context.Context, entryID string) error {
	path := "/api/time-entries/" + url.PathEscape(entryID)
	return c.do(ctx, "delete entry", http.MethodDelete, path, nil, nil)
}

// do performs one request and decodes the response into out (when out is
// non-nil). All failures come back as *domain.RemoteError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &domain.RemoteError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Lets the server dedupe retried mutations
		req.Header.Set("X-Request-ID", uuid.NewString())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", readErrorMessage(resp.Body)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// readErrorMessage pulls a message out of an error response body,
// falling back to the raw body text.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no response body"
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
