package app

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"unusedvar/internal/core/errors"
	"unusedvar/internal/engine/unused"
	"unusedvar/internal/shared/observability"
	"unusedvar/internal/shared/util"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InitialScan walks every watch path, runs the detector over each C++ file
// and records the run in history when a store is attached.
func (a *App) InitialScan(ctx context.Context) error {
	start := time.Now()
	roots := util.UniqueScanRoots(a.Config.WatchPaths)

	files, err := a.ScanDirectories(roots, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return err
	}

	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.ProcessFile(ctx, filePath); err != nil {
			slog.Warn("failed to process file", "path", filePath, "error", err)
		}
	}

	observability.ScanDuration.WithLabelValues("batch").Observe(time.Since(start).Seconds())
	update := a.CurrentUpdate()
	a.recordGauges(update)
	a.recordRun(update)
	if err := a.GenerateOutputs(update.Findings); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "generate_outputs")
	}
	a.emitUpdate(update)
	return nil
}

// ScanDirectories lists the supported files under paths, skipping
// directories and files whose base name matches an exclude glob.
func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	dirGlobs, err := compileGlobs(excludeDirs, "exclude dir")
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(excludeFiles, "exclude file")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)
			if d.IsDir() {
				if path != root && matchAny(dirGlobs, base) {
					return filepath.SkipDir
				}
				return nil
			}

			if !a.IsSupportedPath(path) || matchAny(fileGlobs, base) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "walk scan root"), errors.CtxPath, root)
		}
	}

	return files, nil
}

func matchAny(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// IsSupportedPath reports whether path has one of the configured C++
// extensions.
func (a *App) IsSupportedPath(path string) bool {
	a.resultsMu.RLock()
	defer a.resultsMu.RUnlock()
	return a.extensions[strings.ToLower(filepath.Ext(path))]
}

// ProcessFile reads path, analyzes it and replaces its stored result.
func (a *App) ProcessFile(ctx context.Context, path string) error {
	_, span := observability.Tracer.Start(ctx, "App.ProcessFile", trace.WithAttributes(
		attribute.String("file.path", path),
	))
	defer span.End()

	start := time.Now()
	content, err := os.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		return errors.AddContext(errors.Wrap(err, errors.CodeNotFound, "read source file"), errors.CtxPath, path)
	}

	analysis, cached := a.analyze(content)
	span.SetAttributes(
		attribute.Bool("cache.hit", cached),
		attribute.Int("unused.count", len(analysis.unused)),
	)

	findings := unused.Analysis{Unused: analysis.unused}.Findings(path)
	a.storeResult(FileResult{Path: path, Findings: findings, Declarations: analysis.declarations})

	observability.FilesScannedTotal.Inc()
	observability.ScanDuration.WithLabelValues("file").Observe(time.Since(start).Seconds())
	return nil
}

// analyze returns the detector result for content, consulting the
// content-hash cache first.
func (a *App) analyze(content []byte) (cachedAnalysis, bool) {
	key := util.ContentHash(content)
	if hit, ok := a.cache.Get(key); ok {
		observability.CacheHitsTotal.Inc()
		return hit, true
	}
	observability.CacheMissesTotal.Inc()

	_, detector := a.snapshot()
	result := detector.Analyze(string(content))
	entry := cachedAnalysis{
		declarations: len(result.Declarations),
		unused:       result.Unused,
	}
	a.cache.Add(key, entry)
	return entry, false
}

func (a *App) recordGauges(update Update) {
	observability.UnusedVariables.Set(float64(update.UnusedCount))
	observability.TrackedFiles.Set(float64(update.FileCount))
}
