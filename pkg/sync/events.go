package sync

import (
	"time"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/sources"
)

// Events carries the optional callbacks a sync run reports through. Any
// field may be nil; the emit helpers are safe on a nil receiver so the
// orchestrator never guards a callback itself.
type Events struct {
	// Progress is called after each fetcher completes with the number
	// finished, the total, and the names of fetchers still running.
	Progress func(current, total int, active []string)

	// Log receives human-readable stage messages.
	Log func(message string)

	// PartialModels receives each fetcher's records as soon as that
	// fetcher completes, before reconciliation.
	PartialModels func(id sources.ID, models []catalogs.Model)

	// ConfirmClassification is consulted before the probabilistic safety
	// stage runs, with the batch count and a time estimate. Returning
	// false skips the stage.
	ConfirmClassification func(batches int, estimated time.Duration) bool

	// SkipClassification is polled between classification batches;
	// returning true drains the remaining batches as safe.
	SkipClassification func() bool
}

// EmitProgress invokes Progress if set.
func (e *Events) EmitProgress(current, total int, active []string) {
	if e == nil || e.Progress == nil {
		return
	}
	e.Progress(current, total, active)
}

// EmitLog invokes Log if set.
func (e *Events) EmitLog(message string) {
	if e == nil || e.Log == nil {
		return
	}
	e.Log(message)
}

// EmitPartialModels invokes PartialModels if set.
func (e *Events) EmitPartialModels(id sources.ID, models []catalogs.Model) {
	if e == nil || e.PartialModels == nil {
		return
	}
	e.PartialModels(id, models)
}
