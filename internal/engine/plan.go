package engine

import (
	"time"

	"rtcalsync/internal/config"
	"rtcalsync/internal/model"
)

// tierWindow pairs an applicable audience tier with its event time range.
type tierWindow struct {
	tier  model.Tier
	start time.Time
	end   time.Time
}

// PlanVariants computes the minimal set of (tier × scope) calendar event
// variants that must exist for a source item. This is the one place
// domain policy lives; every "who sees what, where" rule is a filter or
// derivation here, never in callers.
//
// Rules:
//   - Releases start from the full {public, sponsor} × {aggregate,
//     channel} cross product. Sponsors-only items plan no public
//     variants. When the sponsor go-live equals the public go-live (and
//     the item is not sponsors-only) the sponsor variants would be
//     time-identical duplicates of the public ones and are suppressed.
//   - Livestreams have exactly one applicable tier, never both: sponsor
//     when sponsors-only, public otherwise. Times pass through verbatim.
//
// Output order is stable (public before sponsor, aggregate before
// channel); nothing downstream depends on it, but it keeps tests and
// logs deterministic.
func PlanVariants(item model.SourceItem, cals config.CalendarsConfig) []model.Variant {
	var windows []tierWindow

	switch item.Kind {
	case model.KindLivestream:
		tier := model.TierPublic
		if item.IsSponsorsOnly {
			tier = model.TierSponsor
		}
		windows = append(windows, tierWindow{tier: tier, start: item.StartsAt, end: item.EndsAt})

	default: // release
		dur := time.Duration(item.DurationSeconds) * time.Second
		if !item.IsSponsorsOnly {
			windows = append(windows, tierWindow{
				tier:  model.TierPublic,
				start: item.PublicGoLiveAt,
				end:   item.PublicGoLiveAt.Add(dur),
			})
		}
		if item.IsSponsorsOnly || !item.SponsorGoLiveAt.Equal(item.PublicGoLiveAt) {
			windows = append(windows, tierWindow{
				tier:  model.TierSponsor,
				start: item.SponsorGoLiveAt,
				end:   item.SponsorGoLiveAt.Add(dur),
			})
		}
	}

	variants := make([]model.Variant, 0, len(windows)*2)
	for _, w := range windows {
		eventID := DeriveID(item.ID, w.tier)
		for _, scope := range []model.Scope{model.ScopeAggregate, model.ScopeChannel} {
			calendarID := cals.Default
			if scope == model.ScopeChannel {
				calendarID = cals.Resolve(item.Channel)
			}
			variants = append(variants, model.Variant{
				Tier:       w.tier,
				Scope:      scope,
				CalendarID: calendarID,
				EventID:    eventID,
				Start:      w.start,
				End:        w.end,
			})
		}
	}
	return variants
}
