package app

import (
	"context"
	"log/slog"
	"slices"

	"unusedvar/internal/core/config"
	"unusedvar/internal/engine/unused"
)

// UpdateConfig swaps in a reloaded config and rescans everything. The watch
// section and watch paths keep their startup values.
func (a *App) UpdateConfig(ctx context.Context, cfg *config.Config) error {
	a.scanMu.Lock()
	defer a.scanMu.Unlock()

	if err := validateExcludes(cfg); err != nil {
		return err
	}
	if !slices.Equal(cfg.WatchPaths, a.Config.WatchPaths) {
		slog.Warn("watch_paths changed; restart to watch the new roots")
	}

	extensions := make(map[string]bool)
	for _, ext := range cfg.Extensions() {
		extensions[ext] = true
	}

	a.resultsMu.Lock()
	a.Config = cfg
	a.Detector = unused.NewDetector(unused.Options{ExtraKeywords: cfg.Detector.ExtraKeywords})
	a.extensions = extensions
	a.results = make(map[string]FileResult)
	a.resultsMu.Unlock()

	a.watchMu.Lock()
	if a.activeWatcher != nil {
		a.activeWatcher.SetExtensions(cfg.Extensions())
		if err := a.activeWatcher.SetExcludes(cfg.Exclude.Dirs, cfg.Exclude.Files); err != nil {
			slog.Warn("failed to update watcher excludes", "error", err)
		}
	}
	a.watchMu.Unlock()

	// Cached analyses depend on the keyword set.
	a.cache.Purge()
	return a.InitialScan(ctx)
}
