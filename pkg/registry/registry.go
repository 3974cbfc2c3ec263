// Package registry holds the closed set of providers and dispatches
// discovery and handle construction by provider name.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/germanamz/modelgate/pkg/modeladapter"
	"github.com/germanamz/modelgate/pkg/providers/lmstudio"
	"github.com/germanamz/modelgate/pkg/providers/model"
	"github.com/germanamz/modelgate/pkg/providers/ollama"
	"github.com/germanamz/modelgate/pkg/providers/provider"
	"github.com/germanamz/modelgate/pkg/providers/settings"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownProvider is returned when a name does not match any registered provider.
var ErrUnknownProvider = errors.New("registry: unknown provider")

// Registry maps provider names to providers. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]provider.Provider
	log       *slog.Logger
}

// New creates a Registry holding the given providers. A nil logger discards
// diagnostics.
func New(logger *slog.Logger, providers ...provider.Provider) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &Registry{
		providers: make(map[string]provider.Provider, len(providers)),
		log:       logger.With("component", "registry"),
	}
	for _, p := range providers {
		r.Register(p)
	}

	return r
}

// Options configures the built-in providers.
type Options struct {
	Logger *slog.Logger
	NumCtx int // Ollama context window; see ollama.NumCtxFromEnv.
}

// Defaults returns a Registry with the LM Studio and Ollama providers.
func Defaults(opts Options) *Registry {
	return New(opts.Logger,
		lmstudio.New(lmstudio.Options{Logger: opts.Logger}),
		ollama.New(ollama.Options{Logger: opts.Logger, NumCtx: opts.NumCtx}),
	)
}

// Register adds p under its identity name, replacing any provider of the same name.
func (r *Registry) Register(p provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.providers[p.Identity().Name] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (provider.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered provider names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Identities returns the identities of all providers, sorted by name.
func (r *Registry) Identities() []provider.Identity {
	names := r.Names()
	out := make([]provider.Identity, 0, len(names))
	for _, name := range names {
		if p, ok := r.Get(name); ok {
			out = append(out, p.Identity())
		}
	}
	return out
}

func (r *Registry) lookup(name string) (provider.Provider, error) {
	p, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// Discover returns the static models of the named provider followed by the
// models it discovers. It fails only for an unknown provider.
func (r *Registry) Discover(ctx context.Context, name string, src settings.Sources) ([]model.Descriptor, error) {
	p, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	return r.discover(ctx, p, src), nil
}

func (r *Registry) discover(ctx context.Context, p provider.Provider, src settings.Sources) []model.Descriptor {
	start := time.Now()

	static := p.StaticModels()
	dynamic := p.Discover(ctx, src)

	out := make([]model.Descriptor, 0, len(static)+len(dynamic))
	out = append(out, static...)
	out = append(out, dynamic...)

	r.log.DebugContext(ctx, "provider discovered",
		"provider", p.Identity().Name,
		"models", len(out),
		"elapsed", time.Since(start),
	)

	return out
}

// DiscoverAll runs discovery for every provider concurrently and returns the
// models keyed by provider name. Completion order between providers is
// unspecified; each provider's own order is preserved.
func (r *Registry) DiscoverAll(ctx context.Context, src settings.Sources) map[string][]model.Descriptor {
	names := r.Names()
	results := make([][]model.Descriptor, len(names))

	var g errgroup.Group
	for i, name := range names {
		p, ok := r.Get(name)
		if !ok {
			continue
		}
		g.Go(func() error {
			results[i] = r.discover(ctx, p, src)
			return nil
		})
	}
	_ = g.Wait() // Provider discovery never fails.

	out := make(map[string][]model.Descriptor, len(names))
	for i, name := range names {
		if results[i] != nil {
			out[name] = results[i]
		}
	}

	return out
}

// CreateHandle builds a handle for modelName on the named provider.
func (r *Registry) CreateHandle(name, modelName string, src settings.Sources) (modeladapter.Completer, error) {
	p, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	h, err := p.CreateHandle(modelName, src)
	if err != nil {
		return nil, fmt.Errorf("registry: provider %q: %w", name, err)
	}

	return h, nil
}
