// Package config loads the modelgate configuration file and turns it, together
// with the server environment, into the sources consulted by providers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/germanamz/modelgate/pkg/providers/ollama"
	"github.com/germanamz/modelgate/pkg/providers/settings"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	DefaultNumCtx int               `yaml:"default_num_ctx" toml:"default_num_ctx"`
	APIKeys       map[string]string `yaml:"api_keys" toml:"api_keys"` //nolint:gosec // configuration field, not a hardcoded secret
	Providers     []ProviderConfig  `yaml:"providers" toml:"providers"`
	Discovery     DiscoveryConfig   `yaml:"discovery" toml:"discovery"`
}

// ProviderConfig holds the settings object of one provider.
type ProviderConfig struct {
	Name     string `yaml:"name" toml:"name"`
	BaseURL  string `yaml:"base_url" toml:"base_url"`
	APIToken string `yaml:"api_token" toml:"api_token"` //nolint:gosec // configuration field, not a hardcoded secret
}

// DiscoveryConfig controls how callers run discovery.
type DiscoveryConfig struct {
	Timeout string `yaml:"timeout" toml:"timeout"` // Duration string (e.g. "5s"); empty means no timeout.
}

// LoadConfig reads a YAML or TOML file (chosen by extension) and returns a
// Config. Environment variables referenced as ${VAR} or $VAR are expanded
// before parsing so base URLs and tokens can live in the environment.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent. When
// known is non-empty every provider name must appear in it.
func (c Config) Validate(known ...string) error {
	if c.DefaultNumCtx < 0 {
		return fmt.Errorf("config: default_num_ctx must not be negative, got %d", c.DefaultNumCtx)
	}

	names := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("config: provider name is required")
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("config: duplicate provider name %q", p.Name)
		}
		if len(known) > 0 && !slices.Contains(known, p.Name) {
			return fmt.Errorf("config: unknown provider %q (known: %s)", p.Name, strings.Join(known, ", "))
		}
		names[p.Name] = struct{}{}
	}

	for name := range c.APIKeys {
		if len(known) > 0 && !slices.Contains(known, name) {
			return fmt.Errorf("config: api_keys: unknown provider %q", name)
		}
	}

	if _, err := c.DiscoveryTimeout(); err != nil {
		return err
	}

	return nil
}

// DiscoveryTimeout parses Discovery.Timeout. Zero means no timeout.
func (c Config) DiscoveryTimeout() (time.Duration, error) {
	if c.Discovery.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Discovery.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: invalid discovery timeout %q: %w", c.Discovery.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: discovery timeout must not be negative, got %s", d)
	}

	return d, nil
}

// Sources combines the configuration with serverEnv into provider sources.
func (c Config) Sources(serverEnv map[string]string) settings.Sources {
	src := settings.Sources{
		APIKeys:   make(map[string]string, len(c.APIKeys)),
		Providers: make(map[string]settings.Setting, len(c.Providers)),
		ServerEnv: serverEnv,
	}

	for k, v := range c.APIKeys {
		src.APIKeys[k] = v
	}

	for _, p := range c.Providers {
		src.Providers[p.Name] = settings.Setting{BaseURL: p.BaseURL, APIToken: p.APIToken}
	}

	return src
}

// NumCtx returns the Ollama context window: DefaultNumCtx when positive,
// otherwise the DEFAULT_NUM_CTX entry of serverEnv.
func (c Config) NumCtx(serverEnv map[string]string) int {
	if c.DefaultNumCtx > 0 {
		return c.DefaultNumCtx
	}
	return ollama.NumCtxFromEnv(serverEnv)
}
