package modelscout

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/modelscout/modelscout/internal/sources/ollama"
	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/discovery"
	"github.com/modelscout/modelscout/pkg/errors"
	"github.com/modelscout/modelscout/pkg/llm"
	"github.com/modelscout/modelscout/pkg/logging"
	"github.com/modelscout/modelscout/pkg/safety"
	"github.com/modelscout/modelscout/pkg/sources"
	pkgsync "github.com/modelscout/modelscout/pkg/sync"
	"github.com/modelscout/modelscout/pkg/translate"
	"github.com/modelscout/modelscout/pkg/worker"
)

// Sync fetches from all enabled sources concurrently, screens and enriches
// the combined records, merges them into the working set, and commits the
// result unless the run is a dry run. Individual source failures are
// recorded in the result and do not abort the sync; cancellation does,
// surfacing errors.ErrCanceled.
func (c *Client) Sync(ctx context.Context, opts ...pkgsync.Option) (*pkgsync.Result, error) {
	options := pkgsync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	start := time.Now()
	cfg := options.SourceConfig()
	events := options.Events
	logger := logging.FromContext(ctx)

	fetchers := c.registry.Enabled(cfg)
	if len(fetchers) == 0 {
		return nil, errors.ErrNoFetchers
	}

	result := &pkgsync.Result{
		SourceResults: make(map[sources.ID]*pkgsync.SourceResult, len(fetchers)),
		DryRun:        options.DryRun,
	}

	incoming, fetchErrs := c.fetch(ctx, fetchers, cfg, options, result)
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("fetch", err)
	}
	if options.FailFast && len(fetchErrs) > 0 {
		return nil, stderrors.Join(fetchErrs...)
	}
	if len(fetchErrs) == len(fetchers) {
		return nil, stderrors.Join(fetchErrs...)
	}

	completer := c.syncCompleter(cfg)

	// Stage order is fixed: safety, then discovery, then translation.
	complete, blocked, err := c.screen(ctx, incoming, cfg, completer, events)
	if err != nil {
		return nil, err
	}
	result.FlaggedModels = append(result.FlaggedModels, blocked...)
	result.Flagged += len(blocked)
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapCanceled("safety", err)
	}

	if cfg.Discover {
		complete = append(complete, c.discover(ctx, complete, cfg, completer, events)...)
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapCanceled("discovery", err)
		}
	}

	if cfg.Translate && completer != nil {
		translator := translate.New(completer, translate.WithLanguage(cfg.Language()))
		complete = translator.Translate(ctx, complete, events.EmitLog)
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapCanceled("translation", err)
		}
	}

	merged, err := c.merger.Merge(ctx, worker.Request{
		Current:             c.models.List(),
		Incoming:            complete,
		AutoMergeDuplicates: cfg.FuzzyMatching,
	})
	if err != nil {
		return nil, err
	}

	result.Added = merged.Added
	result.Updated = merged.Updated
	result.Models = merged.Models
	result.Duration = time.Since(start)

	if !options.DryRun {
		c.models.Replace(merged.Models)
	}

	logger.Info().
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("flagged", result.Flagged).
		Dur("duration", result.Duration).
		Msg("Sync complete")
	events.EmitLog(result.Summary())

	return result, nil
}

// fetch fans out to every fetcher concurrently and collects their records.
// Each completion reports progress with the fetchers still in flight.
func (c *Client) fetch(
	ctx context.Context,
	fetchers []sources.Fetcher,
	cfg *sources.Config,
	options *pkgsync.Options,
	result *pkgsync.Result,
) ([]catalogs.Model, []error) {
	logger := logging.FromContext(ctx)
	events := options.Events
	total := len(fetchers)

	active := make(map[sources.ID]string, total)
	for _, f := range fetchers {
		active[f.ID()] = f.Name()
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		incoming  []catalogs.Model
		errs      []error
		completed int
	)

	for _, f := range fetchers {
		wg.Add(1)
		go func(f sources.Fetcher) {
			defer wg.Done()

			logger.Info().Str("source", f.ID().String()).Msg("Fetching")
			res, err := f.Fetch(ctx, cfg, events.EmitLog)

			mu.Lock()
			defer mu.Unlock()

			sr := &pkgsync.SourceResult{ID: f.ID()}
			if err != nil {
				logger.Warn().Err(err).Str("source", f.ID().String()).Msg("Source fetch failed")
				sr.Err = errors.WrapSource(f.ID().String(), err)
				errs = append(errs, sr.Err)
			} else {
				sr.Fetched = res.Len()
				sr.Flagged = len(res.Flagged)
				incoming = append(incoming, res.Complete...)
				result.FlaggedModels = append(result.FlaggedModels, res.Flagged...)
				result.Flagged += len(res.Flagged)
				events.EmitPartialModels(f.ID(), res.Complete)
			}
			result.SourceResults[f.ID()] = sr

			completed++
			delete(active, f.ID())
			names := make([]string, 0, len(active))
			for _, name := range active {
				names = append(names, name)
			}
			events.EmitProgress(completed, total, names)
		}(f)
	}

	wg.Wait()
	return incoming, errs
}

// screen runs the two-stage safety pass and returns the surviving records
// plus the records it blocked (empty in tagging mode).
func (c *Client) screen(
	ctx context.Context,
	incoming []catalogs.Model,
	cfg *sources.Config,
	completer llm.Completer,
	events *pkgsync.Events,
) (complete, blocked []catalogs.Model, err error) {
	var opts []safety.Option
	if cfg.LLMSafety && completer != nil {
		opts = append(opts, safety.WithCompleter(completer))
		if events != nil && events.ConfirmClassification != nil {
			opts = append(opts, safety.WithConfirm(safety.ConfirmFunc(events.ConfirmClassification)))
		}
		if events != nil && events.SkipClassification != nil {
			opts = append(opts, safety.WithSkip(safety.SkipFunc(events.SkipClassification)))
		}
	}
	screener := safety.NewScreener(opts...)

	res, err := screener.Screen(ctx, incoming, cfg.BlockNSFW, events.EmitLog)
	if err != nil {
		return nil, nil, fmt.Errorf("safety screening: %w", err)
	}
	return res.Complete, res.Flagged, nil
}

// discover collects supplementary records from the capability client and
// the local runtime, when configured.
func (c *Client) discover(
	ctx context.Context,
	existing []catalogs.Model,
	cfg *sources.Config,
	completer llm.Completer,
	events *pkgsync.Events,
) []catalogs.Model {
	var opts []discovery.Option
	if completer != nil {
		opts = append(opts, discovery.WithCompleter(completer))
	}
	if cfg.OllamaURL != "" {
		opts = append(opts, discovery.WithRuntime(ollama.NewClient(cfg.OllamaURL)))
	}
	return discovery.New(opts...).Discover(ctx, existing, events.EmitLog)
}

// syncCompleter resolves the capability client for this run: the pinned
// one if set, otherwise one built from the configured API key. LLM-backed
// stages degrade gracefully when it is nil.
func (c *Client) syncCompleter(cfg *sources.Config) llm.Completer {
	if c.completer != nil {
		return c.completer
	}
	if cfg.GeminiAPIKey == "" {
		return nil
	}
	completer, err := c.newCompleter(cfg.GeminiAPIKey)
	if err != nil {
		logging.Warn().Err(err).Msg("Capability client unavailable")
		return nil
	}
	return completer
}
