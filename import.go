package modelscout

import (
	"context"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/errors"
	"github.com/modelscout/modelscout/pkg/logging"
	"github.com/modelscout/modelscout/pkg/reconcile"
	"github.com/modelscout/modelscout/pkg/worker"
)

// ImportResult summarizes one import merge.
type ImportResult struct {
	Added   int
	Updated int
	Total   int // Working set size after the merge
}

// Import normalizes raw records from an external payload and merges them
// into the working set through the merge worker. The source names the
// payload's origin and namespaces generated IDs; autoMerge enables fuzzy
// duplicate matching during the merge.
func (c *Client) Import(ctx context.Context, source string, records []catalogs.Model, autoMerge bool) (*ImportResult, error) {
	if source == "" {
		return nil, &errors.ValidationError{
			Field:   "source",
			Message: "import source must be named",
		}
	}
	if len(records) == 0 {
		return nil, &errors.ValidationError{
			Field:   "records",
			Message: "import payload is empty",
		}
	}

	normalized := reconcile.NormalizeImported(source, records)

	resp, err := c.merger.Merge(ctx, worker.Request{
		Current:             c.models.List(),
		Incoming:            normalized,
		AutoMergeDuplicates: autoMerge,
	})
	if err != nil {
		return nil, err
	}

	c.models.Replace(resp.Models)

	logging.FromContext(ctx).Info().
		Str("source", source).
		Int("records", len(records)).
		Int("added", resp.Added).
		Int("updated", resp.Updated).
		Msg("Import complete")

	return &ImportResult{
		Added:   resp.Added,
		Updated: resp.Updated,
		Total:   len(resp.Models),
	}, nil
}
