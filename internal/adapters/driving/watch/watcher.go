// Package watch ingests files as they appear in a directory. It is a
// driving adapter over the ingest service, fed by filesystem events.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/docqa/docqa/internal/core/domain"
	"github.com/docqa/docqa/internal/core/ports/driving"
	"github.com/docqa/docqa/internal/logger"
)

// Watcher ingests supported files created in a watched directory.
// Each file is processed on its own; a failing file never stops the
// watch loop.
type Watcher struct {
	service driving.IngestService

	// OnResult, when set, receives every per-file result. Used by the
	// CLI to print progress.
	OnResult func(domain.IngestResult)
}

// New creates a watcher feeding the given ingest service.
func New(service driving.IngestService) *Watcher {
	return &Watcher{service: service}
}

// Run watches dir until the context is cancelled. Files already in
// the directory are not ingested; only newly created ones are.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: %w", dir, domain.ErrInvalidInput)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("Watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !shouldIngest(event) {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}

	result := w.service.ProcessFile(ctx, event.Name)
	if w.OnResult != nil {
		w.OnResult(result)
	}
}

// shouldIngest filters events down to newly created, supported,
// non-hidden files. Writes are ignored: editors fire them repeatedly
// while a file is still being produced.
func shouldIngest(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) {
		return false
	}
	if isHidden(event.Name) {
		return false
	}
	_, err := domain.SourceTypeFromPath(event.Name)
	return err == nil
}

// isHidden reports whether the file's base name starts with a dot.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
