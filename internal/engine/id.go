package engine

import (
	"crypto/md5"
	"encoding/hex"

	"rtcalsync/internal/model"
)

// sponsorSuffix separates the sponsor-tier event id space from the
// public one for the same source item. Changing it orphans every
// sponsor event already created.
const sponsorSuffix = "sponsor"

// DeriveID produces the deterministic event id for a (source item, tier)
// pair: the item's stable uuid, suffixed for the sponsor tier, hashed and
// hex-encoded. Same inputs always yield the same id across processes and
// runs; this is the sole idempotency mechanism the system has, since the
// destination is both probed and written using this id.
//
// The hex alphabet keeps the id inside Google Calendar's permitted
// event-id character set.
func DeriveID(sourceItemID string, tier model.Tier) string {
	id := sourceItemID
	if tier == model.TierSponsor {
		id += sponsorSuffix
	}
	sum := md5.Sum([]byte(id))
	return hex.EncodeToString(sum[:])
}
