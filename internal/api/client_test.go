package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mgreer/chrono/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", time.Second, zerolog.Nop())
}

func TestStartTimer(t *testing.T) {
	var gotAuth, gotRequestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/time-entries/start" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")

		var req StartTimerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.TaskID != "task-1" {
			t.Errorf("unexpected task id %q", req.TaskID)
		}

		json.NewEncoder(w).Encode(domain.TimeEntry{
			ID:        "entry-1",
			TaskID:    req.TaskID,
			Billable:  req.Billable,
			StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		})
	})

	entry, err := client.StartTimer(context.Background(), StartTimerRequest{TaskID: "task-1", Billable: true})
	if err != nil {
		t.Fatalf("StartTimer failed: %v", err)
	}
	if entry.ID != "entry-1" || !entry.Billable {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("mutations must carry an X-Request-ID header")
	}
}

func TestStopTimerSendsEndTime(t *testing.T) {
	end := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/time-entries/entry-1/stop" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body struct {
			EndTime time.Time `json:"endTime"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !body.EndTime.Equal(end) {
			t.Errorf("expected end time %v, got %v", end, body.EndTime)
		}

		secs := int64(5400)
		json.NewEncoder(w).Encode(domain.TimeEntry{ID: "entry-1", EndTime: &end, DurationSeconds: &secs})
	})

	entry, err := client.StopTimer(context.Background(), "entry-1", end)
	if err != nil {
		t.Fatalf("StopTimer failed: %v", err)
	}
	if entry.DurationSeconds == nil || *entry.DurationSeconds != 5400 {
		t.Errorf("expected committed duration 5400, got %v", entry.DurationSeconds)
	}
}

func TestCurrentTimerNull(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("null"))
	})

	entry, err := client.CurrentTimer(context.Background())
	if err != nil {
		t.Fatalf("CurrentTimer failed: %v", err)
	}
	if entry != nil {
		t.Errorf("expected nil entry for a null body, got %+v", entry)
	}
}

func TestListEntriesQueryParams(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("from") != from.Format(time.RFC3339) || q.Get("to") != to.Format(time.RFC3339) {
			t.Errorf("unexpected time range: %v", q)
		}
		if q.Get("projectId") != "p1" {
			t.Errorf("expected projectId p1, got %q", q.Get("projectId"))
		}
		if r.Header.Get("X-Request-ID") != "" {
			t.Error("reads must not carry an X-Request-ID header")
		}
		json.NewEncoder(w).Encode([]*domain.TimeEntry{{ID: "e1"}, {ID: "e2"}})
	})

	entries, err := client.ListEntries(context.Background(), EntryFilter{From: &from, To: &to, ProjectID: "p1"})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestErrorResponsesBecomeRemoteErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "a timer is already running"})
	})

	_, err := client.StartTimer(context.Background(), StartTimerRequest{TaskID: "task-1"})
	if err == nil {
		t.Fatal("expected an error")
	}

	var remoteErr *domain.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected *domain.RemoteError, got %T", err)
	}
	if remoteErr.StatusCode != http.StatusConflict {
		t.Errorf("expected status 409, got %d", remoteErr.StatusCode)
	}
	if remoteErr.Err.Error() != "a timer is already running" {
		t.Errorf("server message not surfaced: %v", remoteErr.Err)
	}
}

func TestConnectionFailureBecomesRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL, "test-token", time.Second, zerolog.Nop())

	_, err := client.CurrentTimer(context.Background())
	var remoteErr *domain.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected *domain.RemoteError, got %T", err)
	}
	if remoteErr.StatusCode != 0 {
		t.Errorf("transport errors have no status code, got %d", remoteErr.StatusCode)
	}
}

func TestDeleteEntry(t *testing.T) {
	var method, path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteEntry(context.Background(), "entry-1"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if method != http.MethodDelete || path != "/api/time-entries/entry-1" {
		t.Errorf("unexpected request: %s %s", method, path)
	}
}

func TestUpdateEntryOmitsUnsetFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := raw["description"]; !ok {
			t.Error("expected description in patch body")
		}
		if _, ok := raw["billable"]; ok {
			t.Error("unset fields must be omitted from the patch body")
		}
		json.NewEncoder(w).Encode(domain.TimeEntry{ID: "entry-1", Description: "updated"})
	})

	desc := "updated"
	entry, err := client.UpdateEntry(context.Background(), "entry-1", UpdateEntryRequest{Description: &desc})
	if err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}
	if entry.Description != "updated" {
		t.Errorf("unexpected entry: %+v", entry)
	}
}
