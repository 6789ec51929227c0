package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"unusedvar/internal/core/watcher"
	"unusedvar/internal/shared/observability"
)

// StartWatcher begins watching the configured paths. Change batches are
// handled on the watcher's goroutine until ctx is cancelled or Close is
// called.
func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	w.SetExtensions(a.Config.Extensions())

	a.watchMu.Lock()
	a.watchCtx = ctx
	a.activeWatcher = w
	a.watchMu.Unlock()

	return w.Watch(a.Config.WatchPaths)
}

func (a *App) watchContext() context.Context {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()
	if a.watchCtx == nil {
		return context.Background()
	}
	return a.watchCtx
}

// HandleChanges rescans a debounced batch of changed paths. Paths that no
// longer exist drop their results.
func (a *App) HandleChanges(paths []string) {
	ctx := a.watchContext()
	if err := a.limiter.Wait(ctx, 1); err != nil {
		slog.Debug("dropping change batch", "count", len(paths), "error", err)
		return
	}

	a.scanMu.Lock()
	defer a.scanMu.Unlock()

	slog.Info("detected changes", "count", len(paths))
	start := time.Now()
	observability.WatcherEventsTotal.Add(float64(len(paths)))

	for _, path := range paths {
		if !a.IsSupportedPath(path) {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if a.removeResult(path) {
				slog.Debug("removed results for deleted file", "path", path)
			}
			continue
		}
		if err := a.ProcessFile(ctx, path); err != nil {
			slog.Warn("failed to re-process file", "path", path, "error", err)
		}
	}

	observability.ScanDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())
	update := a.CurrentUpdate()
	a.recordGauges(update)
	a.recordRun(update)
	if err := a.GenerateOutputs(update.Findings); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.emitUpdate(update)
}
