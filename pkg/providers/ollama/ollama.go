// Package ollama implements the provider contract for Ollama. Discovery reads
// {baseUrl}/api/tags; handles talk to the native chat API under {baseUrl}/api
// with a context window fixed when the provider is built.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/germanamz/modelgate/pkg/modeladapter"
	"github.com/germanamz/modelgate/pkg/providers/model"
	"github.com/germanamz/modelgate/pkg/providers/provider"
	"github.com/germanamz/modelgate/pkg/providers/settings"
)

const (
	// Name is the provider identity name and settings key.
	Name = "Ollama"

	// BaseURLKey is the ServerEnv key read for the base URL.
	BaseURLKey = "OLLAMA_API_BASE_URL"

	apiRoot  = "/api"
	tagsPath = "/tags"

	// maxTokens is reported for every model regardless of NumCtx.
	maxTokens = 8000
)

var _ provider.Provider = (*Provider)(nil)

var errMalformed = errors.New("invalid response format from Ollama API: missing models list")

// Options configures a Provider.
type Options struct {
	Logger *slog.Logger // Nil discards diagnostics.
	Client *http.Client // HTTP client used for discovery and handles; nil uses the default.
	NumCtx int          // Context window for handles; non-positive uses DefaultNumCtx.
}

// Provider discovers and instantiates Ollama models.
type Provider struct {
	log    *slog.Logger
	client *http.Client
	numCtx int
}

// New creates an Ollama provider.
func New(opts Options) *Provider {
	numCtx := opts.NumCtx
	if numCtx <= 0 {
		numCtx = DefaultNumCtx
	}

	return &Provider{
		log:    provider.Logger(opts.Logger, Name),
		client: opts.Client,
		numCtx: numCtx,
	}
}

// Identity returns the Ollama metadata.
func (p *Provider) Identity() provider.Identity {
	return provider.Identity{
		Name:        Name,
		APIKeyLink:  "https://ollama.com/download",
		APIKeyLabel: "Download Ollama",
		Icon:        "i-ph:cloud-arrow-down",
		BaseURLKey:  BaseURLKey,
	}
}

// StaticModels returns an empty list; all Ollama models are discovered.
func (p *Provider) StaticModels() []model.Descriptor { return []model.Descriptor{} }

// NumCtx returns the context window given to every handle.
func (p *Provider) NumCtx() int { return p.numCtx }

// Tag is one entry of the /api/tags listing.
type Tag struct {
	Name       string     `json:"name"`
	Model      string     `json:"model"`
	ModifiedAt string     `json:"modified_at"`
	Size       int64      `json:"size"`
	Digest     string     `json:"digest"`
	Details    TagDetails `json:"details"`
}

// TagDetails describes the weights behind a tag.
type TagDetails struct {
	ParentModel       string   `json:"parent_model"`
	Format            string   `json:"format"`
	Family            string   `json:"family"`
	Families          []string `json:"families"`
	ParameterSize     string   `json:"parameter_size"`
	QuantizationLevel string   `json:"quantization_level"`
}

type tagsResponse struct {
	Models *[]Tag `json:"models"`
}

// Discover lists the models served at {baseUrl}/api/tags.
func (p *Provider) Discover(ctx context.Context, src settings.Sources) []model.Descriptor {
	conn := resolve(src)
	if !conn.HasBaseURL() {
		p.log.WarnContext(ctx, "no base URL provided for Ollama API")
		return []model.Descriptor{}
	}

	a := modeladapter.New(conn.BaseURL+apiRoot, modeladapter.Auth{Key: conn.APIToken}, p.client)

	var resp tagsResponse
	err := a.GetJSON(ctx, tagsPath, &resp)
	if err == nil && resp.Models == nil {
		err = errMalformed
	}
	if err != nil {
		p.log.ErrorContext(ctx, "failed to get Ollama models", "base_url", conn.BaseURL, "error", err)
		return []model.Descriptor{}
	}

	out := make([]model.Descriptor, 0, len(*resp.Models))
	for _, t := range *resp.Models {
		out = append(out, model.Descriptor{
			Name:      t.Name,
			Label:     label(t),
			Provider:  Name,
			MaxTokens: maxTokens,
		})
	}

	p.log.DebugContext(ctx, "models discovered", "count", len(out))

	return out
}

// CreateHandle returns a native chat handle rooted at {baseUrl}/api that
// carries the resolved token, if any.
func (p *Provider) CreateHandle(name string, src settings.Sources) (modeladapter.Completer, error) {
	conn := resolve(src)
	if !conn.HasBaseURL() {
		return nil, provider.ErrNoBaseURL
	}

	return NewClient(ClientConfig{
		Endpoint: conn.BaseURL + apiRoot,
		Model:    name,
		NumCtx:   p.numCtx,
		Auth:     modeladapter.Auth{Key: conn.APIToken},
		HTTP:     p.client,
	}), nil
}

// label renders "name (parameter size)", or the bare name when the backend
// reports no parameter size.
func label(t Tag) string {
	if t.Details.ParameterSize == "" {
		return t.Name
	}
	return fmt.Sprintf("%s (%s)", t.Name, t.Details.ParameterSize)
}

func resolve(src settings.Sources) settings.Connection {
	return settings.Resolve(Name, src, settings.Keys{BaseURL: BaseURLKey})
}
