package model

import "time"

// Kind distinguishes the two source feeds an item can come from.
type Kind string

const (
	KindRelease    Kind = "release"
	KindLivestream Kind = "livestream"
)

// Tier is the audience a calendar event is meant for. The tier decides
// which go-live time applies and whether the summary carries the
// early-access prefix.
type Tier string

const (
	TierPublic  Tier = "public"
	TierSponsor Tier = "sponsor"
)

// Scope selects the destination calendar: the single cross-channel
// calendar, or the owning channel's own calendar.
type Scope string

const (
	ScopeAggregate Scope = "aggregate"
	ScopeChannel   Scope = "channel"
)

// SourceItem is one scheduled release or livestream fetched from the
// upstream feed. Items are fetched fresh every run and never persisted;
// ID is the feed's stable uuid and is the anchor for idempotency.
type SourceItem struct {
	ID      string
	Kind    Kind
	Channel string // channel slug, e.g. "achievement-hunter"

	Title        string
	DisplayTitle string
	ShowTitle    string // optional
	Description  string
	SelfLink     string // canonical link path on the site, e.g. "/watch/ep-1"

	IsSponsorsOnly bool

	// Release scheduling. Either ordering of the two go-live times is
	// valid input; equality suppresses the sponsor variants.
	PublicGoLiveAt  time.Time
	SponsorGoLiveAt time.Time
	DurationSeconds int

	// Livestream scheduling; used verbatim, no derived end time.
	StartsAt time.Time
	EndsAt   time.Time
}

// Variant is one concrete (tier × scope) calendar event planned for a
// source item. For a given item there is at most one variant per
// (Tier, Scope) pair.
type Variant struct {
	Tier       Tier
	Scope      Scope
	CalendarID string
	EventID    string // deterministic; shared across scopes of the same tier
	Start      time.Time
	End        time.Time
}

// Status classifies a per-variant reconciliation result.
type Status string

const (
	StatusCreated         Status = "created"
	StatusSkippedExisting Status = "skipped_existing"
	StatusFailed          Status = "failed"
)

// Outcome is the per-variant reconciliation result. Outcomes are never
// mutated after creation; there is no "updated" or "deleted" state.
type Outcome struct {
	ItemID  string
	Channel string
	Tier    Tier
	Scope   Scope
	Status  Status
	Err     error // set only when Status == StatusFailed
}
