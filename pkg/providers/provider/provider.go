package provider

import (
	"context"
	"errors"
	"log/slog"

	"github.com/germanamz/modelgate/pkg/modeladapter"
	"github.com/germanamz/modelgate/pkg/providers/model"
	"github.com/germanamz/modelgate/pkg/providers/settings"
)

// ErrNoBaseURL is returned by CreateHandle when no base URL can be resolved.
var ErrNoBaseURL = errors.New("provider: no base URL configured")

// Identity is the static metadata of a provider. It is created once when the
// provider is constructed and never mutated.
type Identity struct {
	Name        string `json:"name"`
	APIKeyLink  string `json:"getApiKeyLink"`
	APIKeyLabel string `json:"labelForGetApiKey"`
	Icon        string `json:"icon"`
	BaseURLKey  string `json:"baseUrlKey"` // ServerEnv key read for the base URL.
}

// Provider is the capability every backend adapter implements.
type Provider interface {
	// Identity returns the provider's static metadata.
	Identity() Identity

	// StaticModels returns the models known without any network call.
	StaticModels() []model.Descriptor

	// Discover queries the backend for its models. It never fails: an absent
	// base URL, a transport error, or a malformed response all yield an empty
	// list, with failures reported through the provider's logger.
	Discover(ctx context.Context, src settings.Sources) []model.Descriptor

	// CreateHandle resolves the connection again and returns a handle bound
	// to it and to name. It performs no I/O and does not check that name was
	// discovered.
	CreateHandle(name string, src settings.Sources) (modeladapter.Completer, error)
}

// Logger scopes l to the named provider. A nil l discards all records.
func Logger(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	return l.With("provider", name)
}
