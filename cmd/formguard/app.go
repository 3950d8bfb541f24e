package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/internal/logging"
	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/feedback"
	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/registry"
)

// app holds what every command needs: configuration, a logger and a guard.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	guard  *guard.Guard
}

func loadApp(flags *globalFlags) (*app, error) {
	loader := config.NewLoader()
	if flags.configPath != "" {
		loader = loader.WithConfigPath(flags.configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	if file := loader.ConfigFile(); file != "" {
		logger.Debug("loaded config", zap.String("file", file))
	}

	g, err := buildGuard(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, guard: g}, nil
}

func (a *app) close() {
	if a != nil && a.logger != nil {
		_ = a.logger.Sync()
	}
}

func buildGuard(cfg *config.Config, logger *zap.Logger) (*guard.Guard, error) {
	reg := registry.Default(registry.WithLogger(logger))
	if path := cfg.Rules.Overrides; path != "" {
		overrides, err := registry.LoadOverridesFile(path)
		if err != nil {
			return nil, err
		}
		if err := overrides.Apply(reg); err != nil {
			return nil, fmt.Errorf("apply rule overrides %s: %w", path, err)
		}
		logger.Debug("applied rule overrides", zap.String("file", path))
	}

	renderOpts := []feedback.Option{
		feedback.WithLogger(logger),
		feedback.WithDismissAfter(cfg.Guard.BannerDelay),
		feedback.WithBannerMessage(cfg.Guard.BannerMessage),
	}
	if selection := cfg.Theme.Selection(); selection != nil {
		renderOpts = append(renderOpts, feedback.WithSelection(selection))
	}
	renderer, err := feedback.New(renderOpts...)
	if err != nil {
		return nil, err
	}

	opts := []guard.Option{
		guard.WithRegistry(reg),
		guard.WithRenderer(renderer),
		guard.WithLogger(logger),
		guard.WithBannerDelay(cfg.Guard.BannerDelay),
		guard.WithSelector(cfg.Guard.Selector),
	}
	if cfg.Guard.FailClosed {
		opts = append(opts, guard.WithFailClosed())
	}
	return guard.New(opts...), nil
}
