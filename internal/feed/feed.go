package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	appLog "rtcalsync/internal/log"
	"rtcalsync/internal/model"
)

// scheduleWindowDays is the number of one-day windows fetched per run:
// one day in the past (to catch items published after the previous run)
// through six days ahead. The upstream API only accepts one-day ranges.
const scheduleWindowDays = 8

// Client fetches schedule entries and livestreams from the upstream
// content feed.
type Client struct {
	hc     *http.Client
	apiURL string
}

// NewClient creates a feed client for the given API base URL.
func NewClient(apiURL string) *Client {
	return &Client{
		hc: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiURL: strings.TrimRight(apiURL, "/"),
	}
}

// feedResponse is the wire envelope for both feeds.
type feedResponse struct {
	Data []itemDTO `json:"data"`
}

// itemDTO mirrors the feed's per-item JSON shape.
type itemDTO struct {
	UUID           string        `json:"uuid"`
	Attributes     attributesDTO `json:"attributes"`
	CanonicalLinks struct {
		Self string `json:"self"`
	} `json:"canonical_links"`
}

type attributesDTO struct {
	Title          string `json:"title"`
	DisplayTitle   string `json:"display_title"`
	ShowTitle      string `json:"show_title"`
	Description    string `json:"description"`
	ChannelSlug    string `json:"channel_slug"`
	Length         int    `json:"length"`
	IsSponsorsOnly bool   `json:"is_sponsors_only"`

	// Timestamps stay strings until per-item parsing: the feed is
	// loosely typed, and one item carrying a malformed timestamp must
	// degrade to a per-item failure, not kill the whole day's decode.

	// Release scheduling; absent for livestreams.
	PublicGoLiveAt  string `json:"public_golive_at"`
	SponsorGoLiveAt string `json:"sponsor_golive_at"`

	// Livestream scheduling; absent for releases.
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

func (d itemDTO) toItem(kind model.Kind) (model.SourceItem, error) {
	publicAt, err1 := parseTimestamp(d.Attributes.PublicGoLiveAt)
	sponsorAt, err2 := parseTimestamp(d.Attributes.SponsorGoLiveAt)
	startsAt, err3 := parseTimestamp(d.Attributes.StartsAt)
	endsAt, err4 := parseTimestamp(d.Attributes.EndsAt)
	if err := errors.Join(err1, err2, err3, err4); err != nil {
		return model.SourceItem{}, err
	}

	return model.SourceItem{
		ID:      d.UUID,
		Kind:    kind,
		Channel: d.Attributes.ChannelSlug,

		Title:        d.Attributes.Title,
		DisplayTitle: d.Attributes.DisplayTitle,
		ShowTitle:    d.Attributes.ShowTitle,
		Description:  d.Attributes.Description,
		SelfLink:     d.CanonicalLinks.Self,

		IsSponsorsOnly: d.Attributes.IsSponsorsOnly,

		PublicGoLiveAt:  publicAt,
		SponsorGoLiveAt: sponsorAt,
		DurationSeconds: d.Attributes.Length,

		StartsAt: startsAt,
		EndsAt:   endsAt,
	}, nil
}

// parseTimestamp parses an RFC3339 feed timestamp. Empty (or null)
// values are valid input and map to the zero time; only a present but
// unparseable value is an error.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Schedule fetches scheduled releases within [from, to).
func (c *Client) Schedule(ctx context.Context, from, to time.Time) ([]model.SourceItem, error) {
	q := url.Values{}
	q.Set("from", from.UTC().Format(time.RFC3339))
	q.Set("to", to.UTC().Format(time.RFC3339))

	var resp feedResponse
	if err := c.getJSON(ctx, c.apiURL+"/schedule?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetch schedule %s: %w", from.Format("2006-01-02"), err)
	}

	items := make([]model.SourceItem, 0, len(resp.Data))
	for _, d := range resp.Data {
		item, err := d.toItem(model.KindRelease)
		if err != nil {
			appLog.Error("skipping malformed schedule item", err, "uuid", d.UUID, "channel", d.Attributes.ChannelSlug)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// WeekSchedule fetches the full schedule window as one flattened
// collection: eight one-day requests issued concurrently, starting one
// day in the past. Any day's failure fails the whole window; within a
// run the schedule feed is not retried.
func (c *Client) WeekSchedule(ctx context.Context) ([]model.SourceItem, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	days := make([][]model.SourceItem, scheduleWindowDays)
	errs := make([]error, scheduleWindowDays)

	var wg sync.WaitGroup
	for i := 0; i < scheduleWindowDays; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := midnight.AddDate(0, 0, i-1)
			end := start.AddDate(0, 0, 1)
			days[i], errs[i] = c.Schedule(ctx, start, end)
		}(i)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	// Flatten in day order so downstream logs read chronologically.
	items := make([]model.SourceItem, 0)
	for _, day := range days {
		items = append(items, day...)
	}

	appLog.Info("schedule window fetched", "days", scheduleWindowDays, "items", len(items))
	return items, nil
}

// Livestreams fetches the livestream feed. No date windowing; the feed
// only returns currently-relevant livestreams.
func (c *Client) Livestreams(ctx context.Context) ([]model.SourceItem, error) {
	var resp feedResponse
	if err := c.getJSON(ctx, c.apiURL+"/livestreams", &resp); err != nil {
		return nil, fmt.Errorf("fetch livestreams: %w", err)
	}

	items := make([]model.SourceItem, 0, len(resp.Data))
	for _, d := range resp.Data {
		item, err := d.toItem(model.KindLivestream)
		if err != nil {
			appLog.Error("skipping malformed livestream item", err, "uuid", d.UUID, "channel", d.Attributes.ChannelSlug)
			continue
		}
		items = append(items, item)
	}

	appLog.Info("livestreams fetched", "items", len(items))
	return items, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
