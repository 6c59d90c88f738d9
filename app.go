package main

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"github.com/alimasry/go-html-editor/config"
	"github.com/alimasry/go-html-editor/console"
	"github.com/alimasry/go-html-editor/edit"
	"github.com/alimasry/go-html-editor/spell"
	"github.com/alimasry/go-html-editor/store"
	"github.com/alimasry/go-html-editor/workspace"
)

// openStore builds the configured backend, wrapped in a write-behind cache
// when a flush interval is set. The returned close func releases it.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.DocumentStore, func() error, error) {
	var (
		st      store.DocumentStore
		closers []func() error
	)
	switch cfg.Store.Backend {
	case "memory":
		st = store.NewMemoryStore()
	case "file":
		st = store.NewFileStore(cfg.Store.Dir, cfg.Store.StateFile)
	case "sqlite":
		s, err := store.NewSQLiteStore(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		st = s
		closers = append(closers, s.Close)
	case "firestore":
		client, err := firestore.NewClient(ctx, cfg.Store.Project)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Firestore client: %w", err)
		}
		st = store.NewFirestoreStore(client, cfg.Store.Collection)
		closers = append(closers, client.Close)
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}

	if d := cfg.GetFlushInterval(); d > 0 {
		cs := store.NewCachedStore(st, d, logger.Named("cache"))
		st = cs
		// The cache flushes before the backend closes.
		closers = append([]func() error{cs.Close}, closers...)
	}
	logger.Debug("store opened", zap.String("backend", cfg.Store.Backend))

	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c(); err != nil && first == nil {
				first = err
			}
		}
		return first
	}
	return st, closeAll, nil
}

// loadDictionary returns the configured word list, or the built-in one.
func loadDictionary(cfg *config.Config) (*spell.Dictionary, error) {
	if cfg.Spell.Dictionary == "" {
		return spell.DefaultDictionary(), nil
	}
	return spell.LoadDictionaryFile(cfg.Spell.Dictionary)
}

// consoleFactory builds consoles that share st, cfg and the dictionary.
// Each console gets its own workspace and spell checker.
func consoleFactory(cfg *config.Config, st store.DocumentStore, logger *zap.Logger, extra ...console.Option) (func(out io.Writer) *console.Console, error) {
	dict, err := loadDictionary(cfg)
	if err != nil {
		return nil, err
	}
	policy := edit.RecordAll
	if !cfg.Editor.RecordFailed {
		policy = edit.RecordSuccessful
	}
	return func(out io.Writer) *console.Console {
		ws := workspace.New(st,
			workspace.WithLogger(logger.Named("workspace")),
			workspace.WithSessionOptions(
				edit.WithPolicy(policy),
				edit.WithStrictIDs(cfg.Editor.StrictIDs),
				edit.WithShowID(cfg.Editor.ShowID),
			),
		)
		opts := []console.Option{
			console.WithChecker(spell.NewChecker(dict)),
			console.WithIndent(cfg.Editor.Indent),
			console.WithMarkTree(cfg.Spell.MarkTree),
			console.WithLogger(logger.Named("console")),
		}
		return console.New(ws, out, append(opts, extra...)...)
	}, nil
}
