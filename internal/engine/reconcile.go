package engine

import (
	"context"
	"sync"

	appLog "rtcalsync/internal/log"
	"rtcalsync/internal/model"
)

// Reconcile plans the variants for one item and brings each missing one
// into existence on the destination. Variants are handled concurrently
// and independently: one variant's failure never blocks its siblings,
// and there is no ordering dependency between them — creation is
// idempotent and commutative under the deterministic event ids.
func (e *Engine) Reconcile(ctx context.Context, item model.SourceItem) []model.Outcome {
	variants := PlanVariants(item, e.cals)
	outcomes := make([]model.Outcome, len(variants))

	var wg sync.WaitGroup
	for i, v := range variants {
		wg.Add(1)
		go func(i int, v model.Variant) {
			defer wg.Done()
			outcomes[i] = e.reconcileVariant(ctx, item, v)
		}(i, v)
	}
	wg.Wait()

	return outcomes
}

// reconcileVariant runs the existence probe / build / create chain for a
// single variant. Every failure is absorbed into the outcome and logged
// with enough context to diagnose and manually retry; nothing is raised
// to the caller.
func (e *Engine) reconcileVariant(ctx context.Context, item model.SourceItem, v model.Variant) model.Outcome {
	out := model.Outcome{
		ItemID:  item.ID,
		Channel: item.Channel,
		Tier:    v.Tier,
		Scope:   v.Scope,
	}

	if e.api.EventExists(ctx, v.CalendarID, v.EventID) {
		out.Status = model.StatusSkippedExisting
		appLog.Debug("event already exists; skipping",
			"item_id", item.ID, "channel", item.Channel, "tier", v.Tier, "scope", v.Scope)
		return out
	}

	ev, err := BuildEvent(item, v.Tier, e.siteURL, v.Start, v.End)
	if err != nil {
		out.Status = model.StatusFailed
		out.Err = err
		appLog.Error("failed to build event payload", err,
			"item_id", item.ID, "channel", item.Channel, "tier", v.Tier, "scope", v.Scope)
		return out
	}

	if err := e.api.InsertEvent(ctx, v.CalendarID, ev); err != nil {
		out.Status = model.StatusFailed
		out.Err = err
		appLog.Error("failed to create event", err,
			"item_id", item.ID, "channel", item.Channel, "tier", v.Tier, "scope", v.Scope,
			"summary", ev.Summary, "calendar_id", v.CalendarID)
		return out
	}

	out.Status = model.StatusCreated
	appLog.Info("created event",
		"title", item.Title, "channel", item.Channel, "tier", v.Tier, "scope", v.Scope)
	return out
}
