// Package lmstudio implements the provider contract for LM Studio, which
// exposes an OpenAI-compatible API under {baseUrl}/v1 and reports no context
// size for its models.
package lmstudio

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/germanamz/modelgate/pkg/modeladapter"
	"github.com/germanamz/modelgate/pkg/providers/model"
	"github.com/germanamz/modelgate/pkg/providers/openai"
	"github.com/germanamz/modelgate/pkg/providers/provider"
	"github.com/germanamz/modelgate/pkg/providers/settings"
)

const (
	// Name is the provider identity name and settings key.
	Name = "LMStudio"

	// BaseURLKey is the ServerEnv key read for the base URL.
	BaseURLKey = "LMSTUDIO_API_BASE_URL"

	apiRoot    = "/v1"
	modelsPath = "/models"

	// maxTokens is reported for every model; LM Studio does not expose it here.
	maxTokens = 8000
)

var _ provider.Provider = (*Provider)(nil)

var errMalformed = errors.New("malformed models response: missing data list")

// Options configures a Provider.
type Options struct {
	Logger *slog.Logger // Nil discards diagnostics.
	Client *http.Client // HTTP client used for discovery and handles; nil uses the default.
}

// Provider discovers and instantiates LM Studio models.
type Provider struct {
	log    *slog.Logger
	client *http.Client
}

// New creates an LM Studio provider.
func New(opts Options) *Provider {
	return &Provider{
		log:    provider.Logger(opts.Logger, Name),
		client: opts.Client,
	}
}

// Identity returns the LM Studio metadata.
func (p *Provider) Identity() provider.Identity {
	return provider.Identity{
		Name:        Name,
		APIKeyLink:  "https://lmstudio.ai/",
		APIKeyLabel: "Get LMStudio",
		Icon:        "i-ph:cloud-arrow-down",
		BaseURLKey:  BaseURLKey,
	}
}

// StaticModels returns an empty list; all LM Studio models are discovered.
func (p *Provider) StaticModels() []model.Descriptor { return []model.Descriptor{} }

type modelsResponse struct {
	Data *[]struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Discover lists the models served at {baseUrl}/v1/models. An unconfigured
// base URL returns an empty list without logging.
func (p *Provider) Discover(ctx context.Context, src settings.Sources) []model.Descriptor {
	conn := resolve(src)
	if !conn.HasBaseURL() {
		return []model.Descriptor{}
	}

	a := modeladapter.New(conn.BaseURL+apiRoot, modeladapter.Auth{}, p.client)

	var resp modelsResponse
	err := a.GetJSON(ctx, modelsPath, &resp)
	if err == nil && resp.Data == nil {
		err = errMalformed
	}
	if err != nil {
		p.log.ErrorContext(ctx, "error getting LMStudio models", "base_url", conn.BaseURL, "error", err)
		return []model.Descriptor{}
	}

	out := make([]model.Descriptor, 0, len(*resp.Data))
	for _, m := range *resp.Data {
		out = append(out, model.Descriptor{
			Name:      m.ID,
			Label:     m.ID,
			Provider:  Name,
			MaxTokens: maxTokens,
		})
	}

	p.log.DebugContext(ctx, "models discovered", "count", len(out))

	return out
}

// CreateHandle returns an OpenAI-compatible handle rooted at {baseUrl}/v1
// with an empty credential.
func (p *Provider) CreateHandle(name string, src settings.Sources) (modeladapter.Completer, error) {
	conn := resolve(src)
	if !conn.HasBaseURL() {
		return nil, provider.ErrNoBaseURL
	}

	a := openai.New(conn.BaseURL+apiRoot, "", name)
	a.Client = p.client

	return a, nil
}

func resolve(src settings.Sources) settings.Connection {
	return settings.Resolve(Name, src, settings.Keys{BaseURL: BaseURLKey})
}
