// Package sources defines the fetcher contract and registry for catalog data
// sources. A fetcher retrieves candidate model records from one external
// source (a model hub, registry index, archive feed, or local runtime) and
// returns a partitioned result of accepted and flagged records.
//
// Fetchers must recover ordinary source unavailability internally: a hub
// being down yields an empty result and a log line, never an error that
// aborts the surrounding sync.
package sources

import (
	"context"

	"github.com/modelscout/modelscout/pkg/catalogs"
)

// ID represents the identifier of a data source.
type ID string

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// Well-known source IDs. The registry is open: external adapters may
// register under any ID.
const (
	HuggingFaceID ID = "huggingface"
	CivitaiID     ID = "civitai"
	ReplicateID   ID = "replicate"
	ArchiveID     ID = "archive"
	OllamaID      ID = "ollama"
	DiscoveryID   ID = "discovery"
	ImportID      ID = "import"
)

// Result is the partitioned outcome of one fetch: records accepted for the
// pipeline and records the source itself rejected or flagged.
type Result struct {
	Complete []catalogs.Model
	Flagged  []catalogs.Model
}

// Append merges another result into this one.
func (r *Result) Append(other Result) {
	r.Complete = append(r.Complete, other.Complete...)
	r.Flagged = append(r.Flagged, other.Flagged...)
}

// Len returns the total number of records in the result.
func (r *Result) Len() int {
	return len(r.Complete) + len(r.Flagged)
}

// LogFunc receives human-readable progress lines from a fetcher for live
// display. A nil LogFunc is valid and discards messages.
type LogFunc func(message string)

// Log emits a message when the function is non-nil.
func (f LogFunc) Log(message string) {
	if f != nil {
		f(message)
	}
}

// Fetcher is the uniform contract every data source adapter implements.
type Fetcher interface {
	// ID returns the source identifier, used to namespace record IDs.
	ID() ID

	// Name returns the human display name of the source.
	Name() string

	// Enabled reports whether this fetcher should run for the given
	// configuration.
	Enabled(cfg *Config) bool

	// Fetch retrieves candidate records. Ordinary source unavailability is
	// recovered internally: log through logFn and return an empty Result.
	// A returned error is reserved for contract violations and is treated
	// by the orchestrator as an empty result after logging.
	Fetch(ctx context.Context, cfg *Config, logFn LogFunc) (Result, error)
}
