package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	gcal "google.golang.org/api/calendar/v3"

	"rtcalsync/internal/model"
)

// ErrMalformedItem marks a source item whose descriptive fields cannot
// produce a non-empty event summary. Callers treat it as a per-item
// failure, never fatal to a batch.
var ErrMalformedItem = errors.New("malformed source item")

// sponsorPrefix marks early-access (sponsor tier) events in the summary.
const sponsorPrefix = "FIRST: "

// ChannelName turns a channel slug into a human-readable display name:
// split on separators, capitalize each word, rejoin with spaces.
// "achievement-hunter" -> "Achievement Hunter".
func ChannelName(slug string) string {
	words := strings.FieldsFunc(strings.ToLower(slug), func(r rune) bool {
		return r == '-' || r == '/' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// BuildEvent maps a source item into the calendar event payload for one
// tier and time range. Pure transform; the only error condition is a
// summary that would come out empty (ErrMalformedItem).
//
// Visibility fields are fixed: events are transparent (they never block
// availability) and guests cannot see each other.
func BuildEvent(item model.SourceItem, tier model.Tier, siteURL string, start, end time.Time) (*gcal.Event, error) {
	if strings.TrimSpace(item.Title) == "" {
		return nil, fmt.Errorf("%w: item %q has no title", ErrMalformedItem, item.ID)
	}

	summary := buildSummary(item, tier)
	description := buildDescription(item, siteURL)

	return &gcal.Event{
		Id:                      DeriveID(item.ID, tier),
		Summary:                 summary,
		Description:             description,
		Start:                   &gcal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:                     &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
		Transparency:            "transparent",
		GuestsCanSeeOtherGuests: boolRef(false),
	}, nil
}

func buildSummary(item model.SourceItem, tier model.Tier) string {
	var b strings.Builder
	if tier == model.TierSponsor {
		b.WriteString(sponsorPrefix)
	}

	switch item.Kind {
	case model.KindLivestream:
		b.WriteString("LIVESTREAM - ")
		b.WriteString(item.Title)
	default:
		if item.ShowTitle != "" {
			b.WriteString(item.ShowTitle)
			b.WriteString(" - ")
		}
		b.WriteString(item.Title)
	}
	return b.String()
}

func buildDescription(item model.SourceItem, siteURL string) string {
	watchURL := strings.TrimRight(siteURL, "/") + item.SelfLink

	if item.Kind == model.KindLivestream {
		return fmt.Sprintf("%s\n%s\n\nWatch stream: %s",
			ChannelName(item.Channel), item.Title, watchURL)
	}

	show := ""
	if item.ShowTitle != "" {
		show = ": " + item.ShowTitle
	}
	return fmt.Sprintf("%s%s\n%s\nDuration: %s\n\n%s\n\nWatch video: %s",
		ChannelName(item.Channel), show,
		item.DisplayTitle,
		HumanDuration(item.DurationSeconds),
		item.Description,
		watchURL)
}

func boolRef(b bool) *bool { return &b }
