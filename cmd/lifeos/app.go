package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/t77yq/lifeos/internal/config"
	"github.com/t77yq/lifeos/internal/storage"
	"github.com/t77yq/lifeos/internal/store"
)

type appEnv struct {
	configPath string
	verbose    bool
}

// app is a store restored from the configured sink for the length of one
// command
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	sink   storage.Sink
	store  *store.Store
	loaded uint64
}

func openApp(ctx context.Context, env appEnv) (*app, error) {
	logger := zap.NewNop()
	if env.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	}

	cfg, err := config.Load(env.configPath)
	if err != nil {
		return nil, err
	}

	sink, err := storage.Open(ctx, logger, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	collections, err := sink.LoadAll(ctx)
	if err != nil {
		sink.Close()
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	s := store.New(logger)
	if err := s.Restore(collections); err != nil {
		sink.Close()
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		sink:   sink,
		store:  s,
		loaded: s.Version(),
	}, nil
}

// close saves the store if the command changed it
func (a *app) close(ctx context.Context) error {
	defer a.logger.Sync()
	defer a.sink.Close()

	if a.store.Version() == a.loaded {
		return nil
	}
	collections, err := a.store.Export()
	if err != nil {
		return fmt.Errorf("failed to export store: %w", err)
	}
	if err := a.sink.SaveAll(ctx, collections); err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// withApp runs fn against an opened app and saves afterwards
func withApp(ctx context.Context, env appEnv, fn func(a *app) error) error {
	a, err := openApp(ctx, env)
	if err != nil {
		return err
	}
	if err := fn(a); err != nil {
		a.sink.Close()
		return err
	}
	return a.close(ctx)
}
