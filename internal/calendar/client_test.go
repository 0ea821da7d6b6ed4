package calendar

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// newTestClient builds a Client whose calendar service talks to the
// given handler instead of the real API.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gcal.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return &Client{svc: svc}
}

func TestEventExistsFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Contains(t, r.URL.Path, "/calendars/cal-all/events/ev-1")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "ev-1", "status": "confirmed"}`)
	}))

	require.True(t, c.EventExists(context.Background(), "cal-all", "ev-1"))
}

func TestEventExistsNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"code": 404, "message": "Not Found"}}`, http.StatusNotFound)
	}))

	require.False(t, c.EventExists(context.Background(), "cal-all", "ev-1"))
}

func TestEventExistsProbeFailureTreatedAsAbsent(t *testing.T) {
	// Any lookup failure counts as "does not exist" so a transient
	// outage never permanently suppresses an event that was never
	// created; the idempotent event id makes re-creation collide
	// harmlessly.
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"code": 500, "message": "Backend Error"}}`, http.StatusInternalServerError)
	}))

	require.False(t, c.EventExists(context.Background(), "cal-all", "ev-1"))
}

func TestEventExistsNetworkErrorTreatedAsAbsent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	svc, err := gcal.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	// Shut the server down so the probe hits a connection error rather
	// than an HTTP status.
	srv.Close()

	c := &Client{svc: svc}
	require.False(t, c.EventExists(context.Background(), "cal-all", "ev-1"))
}

func TestInsertEventSuccess(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "ev-1"}`)
	}))

	err := c.InsertEvent(context.Background(), "cal-all", &gcal.Event{Id: "ev-1", Summary: "Ep 1"})
	require.NoError(t, err)
	require.Contains(t, gotPath, "/calendars/cal-all/events")
}

func TestInsertEventConflictSurfacesError(t *testing.T) {
	// A concurrent or repeated creation collides on the deterministic
	// event id; the collision must come back as an error, not silence.
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"code": 409, "message": "The requested identifier already exists."}}`, http.StatusConflict)
	}))

	err := c.InsertEvent(context.Background(), "cal-all", &gcal.Event{Id: "ev-1"})
	require.Error(t, err)
}
