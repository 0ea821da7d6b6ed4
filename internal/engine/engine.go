// Package engine implements the event reconciliation engine: given
// source items and their publication metadata it plans which calendar
// event variants must exist, derives their deterministic ids, probes the
// destination for prior creation and issues only the missing creation
// requests. All idempotency comes from the derived ids; the engine keeps
// no state between runs.
package engine

import (
	"context"
	"sync"

	"rtcalsync/internal/calendar"
	"rtcalsync/internal/config"
	"rtcalsync/internal/model"
)

// Engine reconciles planned calendar event variants against the
// destination service. The destination client is an explicit capability
// passed in at construction so tests can substitute a fake.
type Engine struct {
	api     calendar.API
	cals    config.CalendarsConfig
	siteURL string
}

// New constructs an Engine around an authenticated destination client.
func New(api calendar.API, cals config.CalendarsConfig, siteURL string) *Engine {
	return &Engine{
		api:     api,
		cals:    cals,
		siteURL: siteURL,
	}
}

// Run fans reconciliation out across all items concurrently and
// aggregates every outcome. A single item's failure never short-circuits
// the batch; wall-clock time is bounded by the slowest item rather than
// the sum of all items. No concurrency cap is applied; the destination's
// own rate limiting provides backpressure.
func (e *Engine) Run(ctx context.Context, items []model.SourceItem) []model.Outcome {
	perItem := make([][]model.Outcome, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item model.SourceItem) {
			defer wg.Done()
			perItem[i] = e.Reconcile(ctx, item)
		}(i, item)
	}
	wg.Wait()

	outcomes := make([]model.Outcome, 0, len(items)*2)
	for _, o := range perItem {
		outcomes = append(outcomes, o...)
	}
	return outcomes
}
