// Package discovery generates supplementary catalog records beyond what the
// structured fetchers return: it asks the text-completion capability to
// propose well-known models missing from the catalog, and can enumerate a
// locally reachable model runtime. Capability failure yields no extra
// records; it never fails the surrounding sync.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/modelscout/modelscout/pkg/catalogs"
	"github.com/modelscout/modelscout/pkg/llm"
	"github.com/modelscout/modelscout/pkg/logging"
	"github.com/modelscout/modelscout/pkg/reconcile"
	"github.com/modelscout/modelscout/pkg/sources"
)

const (
	defaultLimit     = 15
	maxExistingNames = 60

	proposeSystemPrompt = "You are a research assistant for an AI model catalog. Propose " +
		"well-known, publicly released AI models that are missing from the provided list. " +
		"Respond with strict JSON only: an array of objects with keys " +
		"\"name\", \"provider\", \"domain\", and \"description\". " +
		"Valid domains: %s. No prose, no markdown."
)

// Runtime enumerates models from a locally reachable model runtime.
type Runtime interface {
	ListModels(ctx context.Context) ([]catalogs.Model, error)
}

// Discoverer produces supplementary records.
type Discoverer struct {
	completer llm.Completer
	runtime   Runtime
	limit     int
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithCompleter provides the text-completion capability for proposals.
func WithCompleter(c llm.Completer) Option {
	return func(d *Discoverer) {
		d.completer = c
	}
}

// WithRuntime provides a local runtime to enumerate.
func WithRuntime(r Runtime) Option {
	return func(d *Discoverer) {
		d.runtime = r
	}
}

// WithLimit caps the number of proposed records per pass.
func WithLimit(n int) Option {
	return func(d *Discoverer) {
		if n > 0 {
			d.limit = n
		}
	}
}

// New creates a Discoverer. With neither a completer nor a runtime
// configured, Discover returns nothing.
func New(opts ...Option) *Discoverer {
	d := &Discoverer{limit: defaultLimit}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// proposal is the strict JSON shape the capability must return per record.
type proposal struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
}

// Discover returns supplementary records not present in existing. The
// existing slice is only read.
func (d *Discoverer) Discover(ctx context.Context, existing []catalogs.Model, logFn func(string)) []catalogs.Model {
	var out []catalogs.Model

	known := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		known[reconcile.NormalizeName(m.Name)] = struct{}{}
	}

	if d.completer != nil {
		proposed := d.propose(ctx, existing, known)
		if len(proposed) > 0 && logFn != nil {
			logFn(fmt.Sprintf("Discovery: %d models proposed", len(proposed)))
		}
		out = append(out, proposed...)
	}

	if d.runtime != nil {
		local, err := d.runtime.ListModels(ctx)
		if err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("Runtime enumeration failed")
		} else {
			for _, m := range local {
				if _, dup := known[reconcile.NormalizeName(m.Name)]; dup {
					continue
				}
				out = append(out, m)
			}
			if logFn != nil {
				logFn(fmt.Sprintf("Discovery: %d models from local runtime", len(local)))
			}
		}
	}

	return out
}

// propose asks the capability for missing models and converts valid
// proposals to records.
func (d *Discoverer) propose(ctx context.Context, existing []catalogs.Model, known map[string]struct{}) []catalogs.Model {
	logger := logging.FromContext(ctx)

	var names []string
	for _, m := range existing {
		names = append(names, m.Name)
		if len(names) >= maxExistingNames {
			break
		}
	}

	userPrompt := fmt.Sprintf(
		"Propose up to %d models missing from this catalog:\n%s",
		d.limit, strings.Join(names, "\n"),
	)
	systemPrompt := fmt.Sprintf(proposeSystemPrompt, domainList())

	completion, err := d.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		logger.Warn().Err(err).Msg("Discovery proposals unavailable")
		return nil
	}

	var proposals []proposal
	if err := json.Unmarshal([]byte(llm.ExtractJSON(completion)), &proposals); err != nil {
		logger.Warn().Err(err).Msg("Discovery response could not be parsed")
		return nil
	}

	titler := cases.Title(language.English)
	var out []catalogs.Model
	for _, p := range proposals {
		if len(out) >= d.limit {
			break
		}
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		if _, dup := known[reconcile.NormalizeName(name)]; dup {
			continue
		}

		provider := strings.TrimSpace(p.Provider)
		if provider != "" && provider == strings.ToLower(provider) {
			provider = titler.String(provider)
		}

		domain := catalogs.Domain(strings.TrimSpace(p.Domain))
		if !domain.IsValid() {
			domain = catalogs.DomainOther
		}

		out = append(out, catalogs.Model{
			ID:          string(sources.DiscoveryID) + "-" + uuid.NewString(),
			Name:        name,
			Provider:    provider,
			Domain:      domain,
			Description: strings.TrimSpace(p.Description),
			Source:      string(sources.DiscoveryID),
			Tags:        []string{catalogs.TagDiscovered},
		})
		known[reconcile.NormalizeName(name)] = struct{}{}
	}
	return out
}

// domainList renders the closed domain set for the prompt.
func domainList() string {
	domains := catalogs.Domains()
	parts := make([]string, len(domains))
	for i, d := range domains {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
