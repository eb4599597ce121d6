package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/sources"
)

// Result represents the complete outcome of a sync operation.
type Result struct {
	// Overall statistics
	Added   int // Records new to the working set
	Updated int // Existing records that absorbed incoming data
	Flagged int // Records quarantined or tagged by safety screening

	// Per-source outcomes, keyed by source ID.
	SourceResults map[sources.ID]*SourceResult

	// Final working set after reconciliation. Empty on a dry run only if
	// the caller discards it; the orchestrator always populates it.
	Models []catalogs.Model

	// FlaggedModels aggregates per-source pre-flagged records plus anything
	// quarantined by blocking-mode safety screening. These never enter the
	// working set; Flagged is their count.
	FlaggedModels []catalogs.Model

	// Operation metadata
	DryRun   bool
	Duration time.Duration
}

// SourceResult records one fetcher's contribution to a sync.
type SourceResult struct {
	ID      sources.ID
	Fetched int   // Records returned by the fetcher
	Flagged int   // Records the fetcher pre-flagged
	Err     error // Non-nil when the fetcher failed and contributed nothing
}

// HasChanges reports whether the sync produced any additions or updates.
func (r *Result) HasChanges() bool {
	return r.Added > 0 || r.Updated > 0
}

// Failed returns the IDs of sources that errored, in no particular order.
func (r *Result) Failed() []sources.ID {
	var ids []sources.ID
	for id, sr := range r.SourceResults {
		if sr.Err != nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Summary returns a human-readable one-line summary of the sync.
func (r *Result) Summary() string {
	if !r.HasChanges() && r.Flagged == 0 {
		return "No changes detected"
	}

	summary := fmt.Sprintf("%d added, %d updated", r.Added, r.Updated)
	if r.Flagged > 0 {
		summary += fmt.Sprintf(", %d flagged", r.Flagged)
	}
	summary += fmt.Sprintf(" in %s", r.Duration.Round(time.Millisecond))

	var parts []string
	if r.DryRun {
		parts = append(parts, "(dry run)")
	}
	if failed := r.Failed(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, id := range failed {
			names[i] = id.String()
		}
		parts = append(parts, fmt.Sprintf("(%d sources failed)", len(names)))
	}
	if len(parts) > 0 {
		summary += " " + strings.Join(parts, " ")
	}
	return summary
}
