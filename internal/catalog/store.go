// internal/catalog/store.go
package catalog

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"dialogue-workers/internal/common/logger"
	"dialogue-workers/internal/common/metrics"
)

// Store holds the current catalog snapshot behind an atomic pointer.
// Readers always observe a complete snapshot; reload swaps the whole
// catalog, never mutates it in place.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore creates a store seeded with the given snapshot.
func NewStore(initial *Catalog) *Store {
	s := &Store{}
	if initial == nil {
		initial = Empty()
	}
	s.current.Store(initial)
	return s
}

// Get returns the current snapshot.
func (s *Store) Get() *Catalog {
	return s.current.Load()
}

// Swap replaces the snapshot.
func (s *Store) Swap(next *Catalog) {
	if next == nil {
		next = Empty()
	}
	s.current.Store(next)
}

// Watch reloads the snapshot whenever one of the two catalog files
// changes on disk. Events are debounced because editors and config
// pushes tend to emit several write events per save. Blocks until ctx
// is done.
func (s *Store) Watch(ctx context.Context, rulesPath, templatesPath string, log logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the parent directories: most tools replace files by rename,
	// which drops watches on the files themselves.
	dirs := map[string]struct{}{
		filepath.Dir(rulesPath):     {},
		filepath.Dir(templatesPath): {},
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	var pending *time.Timer
	reload := func() {
		next := LoadFiles(rulesPath, templatesPath, log)
		s.Swap(next)
		metrics.CatalogReloads.WithLabelValues("ok").Inc()
		log.Info("catalog snapshot swapped", map[string]interface{}{
			"rules":     next.RuleCount(),
			"templates": next.TemplateCount(),
		})
	}

	watched := map[string]struct{}{
		filepath.Clean(rulesPath):     {},
		filepath.Clean(templatesPath): {},
	}

	for {
		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, relevant := watched[filepath.Clean(event.Name)]; !relevant {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(200*time.Millisecond, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			metrics.CatalogReloads.WithLabelValues("error").Inc()
			log.Warn("catalog watcher error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
