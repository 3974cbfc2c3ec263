package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/germanamz/modelgate/pkg/config"
	"github.com/germanamz/modelgate/pkg/gatedir"
	"github.com/germanamz/modelgate/pkg/providers/settings"
	"github.com/germanamz/modelgate/pkg/registry"
)

// app is the state shared by all commands once the global flags are parsed.
type app struct {
	dir     gatedir.Dir
	cfg     config.Config
	envFile string
	log     *slog.Logger
	reg     *registry.Registry
	timeout time.Duration
}

// newApp loads the .env file, the configuration and the server environment,
// and builds the provider registry. Diagnostics go to stderr.
func newApp(g *globalFlags, stderr io.Writer) (*app, error) {
	if err := loadDotEnv(g.env); err != nil {
		return nil, err
	}

	logger := newLogger(stderr, g.verbose)
	dir := gatedir.New(g.dir)

	var cfg config.Config
	if path := dir.ResolveConfig(g.config); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.Debug("config loaded", "path", path)
	}

	a := &app{
		dir:     dir,
		cfg:     cfg,
		envFile: dir.EnvPath(),
		log:     logger,
	}

	env, err := a.serverEnv()
	if err != nil {
		return nil, err
	}

	a.reg = registry.Defaults(registry.Options{Logger: logger, NumCtx: cfg.NumCtx(env)})

	if err := cfg.Validate(a.reg.Names()...); err != nil {
		return nil, err
	}

	a.timeout = g.timeout
	if a.timeout == 0 {
		if a.timeout, err = cfg.DiscoveryTimeout(); err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) serverEnv() (map[string]string, error) {
	return config.ServerEnv(a.envFile)
}

// sources re-reads the server environment so every discovery or handle sees
// the current settings.
func (a *app) sources() (settings.Sources, error) {
	env, err := a.serverEnv()
	if err != nil {
		return settings.Sources{}, err
	}
	return a.cfg.Sources(env), nil
}

// discoveryContext bounds ctx by the discovery timeout, if any.
func (a *app) discoveryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout > 0 {
		return context.WithTimeout(ctx, a.timeout)
	}
	return context.WithCancel(ctx)
}
