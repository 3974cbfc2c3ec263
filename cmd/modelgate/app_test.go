package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/germanamz/modelgate/pkg/config"
	"github.com/germanamz/modelgate/pkg/providers/ollama"
	"github.com/germanamz/modelgate/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewApp_LoadsDirConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".modelgate")
	writeFile(t, filepath.Join(dir, "config.yaml"), `
default_num_ctx: 4096
providers:
  - name: Ollama
    base_url: http://localhost:11434/
discovery:
  timeout: 3s
`)

	var stderr bytes.Buffer
	a, err := newApp(&globalFlags{dir: dir}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, a.timeout)
	assert.Equal(t, []string{"LMStudio", "Ollama"}, a.reg.Names())

	p, ok := a.reg.Get("Ollama")
	require.True(t, ok)
	o, ok := p.(*ollama.Provider)
	require.True(t, ok)
	assert.Equal(t, 4096, o.NumCtx())

	src, err := a.sources()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/", src.Providers["Ollama"].BaseURL)
}

func TestNewApp_TimeoutFlagWins(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".modelgate")
	writeFile(t, filepath.Join(dir, "config.yaml"), "discovery:\n  timeout: 3s\n")

	a, err := newApp(&globalFlags{dir: dir, timeout: time.Second}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, time.Second, a.timeout)
}

func TestNewApp_NoConfig(t *testing.T) {
	t.Setenv("DEFAULT_NUM_CTX", "")

	a, err := newApp(&globalFlags{dir: filepath.Join(t.TempDir(), "missing")}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Zero(t, a.timeout)
	p, _ := a.reg.Get("Ollama")
	assert.Equal(t, ollama.DefaultNumCtx, p.(*ollama.Provider).NumCtx())
}

func TestNewApp_UnknownProvider(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".modelgate")
	writeFile(t, filepath.Join(dir, "config.yaml"), "providers:\n  - name: OpenAI\n")

	_, err := newApp(&globalFlags{dir: dir}, &bytes.Buffer{})
	assert.ErrorContains(t, err, `unknown provider "OpenAI"`)
}

func TestNewApp_ExplicitConfigMissing(t *testing.T) {
	_, err := newApp(&globalFlags{
		dir:    t.TempDir(),
		config: filepath.Join(t.TempDir(), "nope.yaml"),
	}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "config: load")
}

func TestNewApp_DirEnvFile(t *testing.T) {
	t.Setenv("OLLAMA_API_BASE_URL", "")
	require.NoError(t, os.Unsetenv("OLLAMA_API_BASE_URL"))

	dir := filepath.Join(t.TempDir(), ".modelgate")
	writeFile(t, filepath.Join(dir, ".env"), "OLLAMA_API_BASE_URL=http://gpu-box:11434\n")

	a, err := newApp(&globalFlags{dir: dir}, &bytes.Buffer{})
	require.NoError(t, err)

	src, err := a.sources()
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", src.ServerEnv["OLLAMA_API_BASE_URL"])
}

func TestDiscoveryContext(t *testing.T) {
	a := &app{timeout: time.Minute}
	ctx, cancel := a.discoveryContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	a.timeout = 0
	ctx, cancel = a.discoveryContext(context.Background())
	defer cancel()
	_, ok = ctx.Deadline()
	assert.False(t, ok)
}

func TestDiscover_TimeoutYieldsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	a := &app{
		cfg:     config.Config{Providers: []config.ProviderConfig{{Name: "Ollama", BaseURL: srv.URL}}},
		log:     newLogger(&bytes.Buffer{}, false),
		reg:     registry.New(nil, ollama.New(ollama.Options{})),
		timeout: 50 * time.Millisecond,
	}

	start := time.Now()
	snap, err := a.discover(context.Background(), "")
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 4*time.Second)
	models, ok := snap["Ollama"]
	require.True(t, ok)
	assert.Empty(t, models)
}
