package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rtcalsync/internal/model"
)

const scheduleItemJSON = `{
	"uuid": "uuid-1",
	"attributes": {
		"title": "Ep 1",
		"display_title": "Episode One",
		"show_title": "Off Topic",
		"description": "The gang talks.",
		"channel_slug": "achievement-hunter",
		"length": 3600,
		"is_sponsors_only": false,
		"public_golive_at": "2026-03-01T18:00:00Z",
		"sponsor_golive_at": "2026-02-27T18:00:00Z"
	},
	"canonical_links": {"self": "/watch/off-topic-ep-1"}
}`

func TestScheduleDecodesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/schedule", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("from"))
		require.NotEmpty(t, r.URL.Query().Get("to"))
		fmt.Fprintf(w, `{"data":[%s]}`, scheduleItemJSON)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, err := c.Schedule(context.Background(), time.Now(), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	require.Equal(t, "uuid-1", item.ID)
	require.Equal(t, model.KindRelease, item.Kind)
	require.Equal(t, "achievement-hunter", item.Channel)
	require.Equal(t, "Ep 1", item.Title)
	require.Equal(t, "Episode One", item.DisplayTitle)
	require.Equal(t, "Off Topic", item.ShowTitle)
	require.Equal(t, "/watch/off-topic-ep-1", item.SelfLink)
	require.Equal(t, 3600, item.DurationSeconds)
	require.False(t, item.IsSponsorsOnly)
	require.Equal(t, time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC), item.PublicGoLiveAt.UTC())
	require.Equal(t, time.Date(2026, 2, 27, 18, 0, 0, 0, time.UTC), item.SponsorGoLiveAt.UTC())
}

func TestScheduleSkipsItemWithMalformedTimestamp(t *testing.T) {
	// One item carrying a garbage timestamp degrades to a per-item
	// skip; its siblings in the same day still come through.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"data":[
			{
				"uuid": "bad-1",
				"attributes": {
					"title": "Broken",
					"channel_slug": "funhaus",
					"public_golive_at": "not-a-timestamp"
				},
				"canonical_links": {"self": "/watch/broken"}
			},
			%s
		]}`, scheduleItemJSON)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, err := c.Schedule(context.Background(), time.Now(), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "uuid-1", items[0].ID)
}

func TestScheduleToleratesEmptyTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":[{
			"uuid": "uuid-2",
			"attributes": {
				"title": "Ep 2",
				"channel_slug": "funhaus",
				"public_golive_at": "",
				"sponsor_golive_at": null
			},
			"canonical_links": {"self": "/watch/ep-2"}
		}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, err := c.Schedule(context.Background(), time.Now(), time.Now().AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].PublicGoLiveAt.IsZero())
	require.True(t, items[0].SponsorGoLiveAt.IsZero())
}

func TestWeekScheduleFetchesEightOneDayWindows(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
		require.NoError(t, err)
		to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
		require.NoError(t, err)
		require.Equal(t, 24*time.Hour, to.Sub(from))

		fmt.Fprintf(w, `{"data":[%s]}`, scheduleItemJSON)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, err := c.WeekSchedule(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 8, atomic.LoadInt32(&calls))
	require.Len(t, items, 8)
}

func TestWeekScheduleFailsWhenAnyDayFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.WeekSchedule(context.Background())
	require.Error(t, err)
}

func TestLivestreams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/livestreams", r.URL.Path)
		fmt.Fprint(w, `{"data":[{
			"uuid": "ls-1",
			"attributes": {
				"title": "Friday Stream",
				"channel_slug": "funhaus",
				"is_sponsors_only": true,
				"starts_at": "2026-03-06T20:00:00Z",
				"ends_at": "2026-03-06T23:00:00Z"
			},
			"canonical_links": {"self": "/live/funhaus"}
		}]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, err := c.Livestreams(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	require.Equal(t, "ls-1", item.ID)
	require.Equal(t, model.KindLivestream, item.Kind)
	require.Equal(t, "funhaus", item.Channel)
	require.True(t, item.IsSponsorsOnly)
	require.Equal(t, time.Date(2026, 3, 6, 20, 0, 0, 0, time.UTC), item.StartsAt.UTC())
	require.Equal(t, time.Date(2026, 3, 6, 23, 0, 0, 0, time.UTC), item.EndsAt.UTC())
}

func TestLivestreamsNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Livestreams(context.Background())
	require.Error(t, err)
}
