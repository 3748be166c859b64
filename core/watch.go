package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tier4/mapvalidator/internal/contract"
	"github.com/tier4/mapvalidator/internal/logctx"
)

// watchDebounce is how long the watcher waits for writes to settle before re-validating.
const watchDebounce = 300 * time.Millisecond

// ValidateFunc runs one validation. It is swapped out in tests.
type ValidateFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// WatchValidation validates once, then re-validates whenever the map, the
// requirements, the exclusions or the parameters change, until ctx is done.
// A failed validation does not stop the watch.
func WatchValidation(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, validate ValidateFunc) error {
	logger := logctx.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace files, so the parent directories are watched
	// and events are matched by name.
	watched := watchedFiles(cfg)
	dirs := make(map[string]struct{})
	for path := range watched {
		dirs[filepath.Dir(path)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
	}

	runOnce := func() {
		err := validate(ctx, cfg, mgr)
		switch {
		case err == nil, errors.Is(err, ErrValidationFailed):
		case errors.Is(err, context.Canceled):
		default:
			contract.LogWarn("Validation failed to run", err)
		}
	}
	runOnce()
	fmt.Fprintf(os.Stderr, "👀 Watching %d files for changes (Ctrl+C to stop)\n", len(watched))

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, ok := watched[filepath.Clean(ev.Name)]; !ok {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("watched file changed", "path", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case <-trigger:
			fmt.Fprintln(os.Stderr, "🔁 Change detected, validating again")
			runOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			contract.LogWarn("Watch error", err)
		}
	}
}

// watchedFiles returns the input documents of cfg that exist on disk.
func watchedFiles(cfg *contract.Config) map[string]struct{} {
	files := make(map[string]struct{})
	for _, path := range []string{cfg.MapPath, cfg.RequirementsPath, cfg.ExclusionsPath, cfg.ParametersPath, cfg.IssuesInfoPath} {
		if path != "" {
			files[filepath.Clean(path)] = struct{}{}
		}
	}
	return files
}
