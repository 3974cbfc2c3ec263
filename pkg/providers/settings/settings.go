// Package settings resolves the effective connection settings of a provider
// from the configuration sources supplied by the hosting application.
//
// Resolution is pure: it never reads the process environment. Hosts that want
// process variables to participate fold them into [Sources.ServerEnv].
package settings

import "strings"

// Setting is the per-provider settings object. Zero fields mean "not set".
type Setting struct {
	BaseURL  string `yaml:"base_url" toml:"base_url" json:"baseUrl,omitempty"`
	APIToken string `yaml:"api_token" toml:"api_token" json:"apiToken,omitempty"` //nolint:gosec // configuration field, not a hardcoded secret
}

// Sources groups the configuration sources consulted during resolution.
// Every field may be nil.
type Sources struct {
	APIKeys   map[string]string  // Explicit API keys keyed by provider name.
	Providers map[string]Setting // Per-provider settings keyed by provider name.
	ServerEnv map[string]string  // Server/process environment.
}

// Keys names the ServerEnv entries a provider reads by default. An empty key
// is never looked up.
type Keys struct {
	BaseURL  string
	APIToken string
}

// Connection is the effective connection of a provider. An empty field is
// absent. Connections are recomputed on every call and never stored.
type Connection struct {
	BaseURL  string
	APIToken string
}

// HasBaseURL reports whether a base URL was resolved. Callers must check it
// before issuing any request.
func (c Connection) HasBaseURL() bool { return c.BaseURL != "" }

// Resolve computes the connection for providerKey. For each field the first
// non-empty value wins:
//
//	base URL:  Providers[key].BaseURL, ServerEnv[keys.BaseURL]
//	API token: APIKeys[key], Providers[key].APIToken, ServerEnv[keys.APIToken]
//
// There is no hardcoded fallback. A single trailing slash is trimmed from the
// base URL.
func Resolve(providerKey string, src Sources, keys Keys) Connection {
	setting := src.Providers[providerKey]

	return Connection{
		BaseURL:  strings.TrimSuffix(first(setting.BaseURL, lookup(src.ServerEnv, keys.BaseURL)), "/"),
		APIToken: first(src.APIKeys[providerKey], setting.APIToken, lookup(src.ServerEnv, keys.APIToken)),
	}
}

func lookup(env map[string]string, key string) string {
	if key == "" {
		return ""
	}
	return env[key]
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
