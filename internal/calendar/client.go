package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	appLog "rtcalsync/internal/log"
)

// API is the narrow destination-service surface the reconciliation
// engine depends on. Tests substitute a fake; production wires Client.
type API interface {
	// EventExists reports whether an event with the given deterministic
	// id already exists on the calendar.
	EventExists(ctx context.Context, calendarID, eventID string) bool
	// InsertEvent creates the event on the calendar. The event carries
	// its own id, so a repeated creation collides instead of duplicating.
	InsertEvent(ctx context.Context, calendarID string, ev *gcal.Event) error
}

// Client wraps an authenticated Google Calendar service. It is built
// once per run and shared read-only across all reconciliation
// goroutines.
type Client struct {
	svc *gcal.Service
}

var _ API = (*Client)(nil)

// NewClient exchanges a service-account JSON key for a calendar-scoped
// client. A failure here is fatal to the whole run; nothing downstream
// can proceed without the destination client.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	conf, err := google.JWTConfigFromJSON(data, gcal.CalendarScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// EventExists probes the calendar by event id. Any lookup failure
// (not-found, network error, malformed response) counts as "does not
// exist": a transient probe failure must never permanently suppress an
// event that was never actually created. The deterministic event id
// makes a redundant creation attempt collide instead of duplicating.
// Non-404 probe errors are logged so real outages stay visible.
func (c *Client) EventExists(ctx context.Context, calendarID, eventID string) bool {
	_, err := c.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if !errors.As(err, &gerr) || gerr.Code != http.StatusNotFound {
			appLog.Error("event existence probe failed; treating as absent", err,
				"calendar_id", calendarID, "event_id", eventID)
		}
		return false
	}
	return true
}

// InsertEvent creates an event on the given calendar.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, ev *gcal.Event) error {
	_, err := c.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
	return err
}
