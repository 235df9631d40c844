package rulesfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"website_revolution/internal/domain/service/scoring"
	"website_revolution/pkg/logx"
)

const debounce = 200 * time.Millisecond

type RuleSetter interface {
	SetRules(rules []scoring.Rule) error
}

// Watcher reloads the rules file into a scorer whenever it changes. A broken
// file is logged and the previous rules stay active.
type Watcher struct {
	path   string
	scorer RuleSetter
}

func NewWatcher(path string, scorer RuleSetter) *Watcher {
	return &Watcher{
		path:   filepath.Clean(path),
		scorer: scorer,
	}
}

// Reload applies the file once.
func (w *Watcher) Reload(ctx context.Context) error {
	rules, err := Load(w.path)
	if err != nil {
		return fmt.Errorf("rulesfile.Load: %w", err)
	}

	if err := w.scorer.SetRules(rules); err != nil {
		return fmt.Errorf("scorer.SetRules: %w", err)
	}

	logger(ctx).Info("scoring rules loaded",
		slog.String(logx.FieldFilename, w.path),
		slog.Int(logx.FieldCount, len(rules)),
	)

	return nil
}

// Run blocks until ctx is done. The parent directory is watched so editors
// that replace the file on save are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watcher.Add: %w", err)
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger(ctx).Error("rules watcher", logx.Error(err))

		case <-timer.C:
			if err := w.Reload(ctx); err != nil {
				logger(ctx).Error("failed to reload scoring rules", logx.Error(err))
			}
		}
	}
}
