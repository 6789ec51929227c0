package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"unusedvar/internal/core/config"
	"unusedvar/internal/core/errors"
	"unusedvar/internal/core/watcher"
	"unusedvar/internal/data/history"
	"unusedvar/internal/engine/unused"
	"unusedvar/internal/shared/util"

	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"
)

// FileResult is the detector outcome for one file.
type FileResult struct {
	Path         string
	Findings     []unused.Finding
	Declarations int
}

// Update is pushed to listeners after every scan or watch batch.
type Update struct {
	Findings     []unused.Finding
	FileCount    int
	UnusedCount  int
	Declarations int
	Timestamp    time.Time
}

// HistoryStore persists scan runs. *history.Store satisfies it.
type HistoryStore interface {
	SaveRun(projectKey string, run history.Run) (string, error)
	Close() error
}

type Dependencies struct {
	Detector *unused.Detector
	History  HistoryStore
}

type cachedAnalysis struct {
	declarations int
	unused       []unused.Declaration
}

type App struct {
	Config   *config.Config
	Detector *unused.Detector

	extensions map[string]bool

	resultsMu sync.RWMutex
	results   map[string]FileResult

	cache   *lru.Cache[string, cachedAnalysis]
	limiter *util.Limiter
	history HistoryStore

	// scanMu serializes watch batches with config reloads.
	scanMu sync.Mutex

	watchMu       sync.Mutex
	watchCtx      context.Context
	activeWatcher *watcher.Watcher

	updateMu sync.RWMutex
	onUpdate func(Update)
}

func New(cfg *config.Config) (*App, error) {
	return NewWithDependencies(cfg, Dependencies{})
}

func NewWithDependencies(cfg *config.Config, deps Dependencies) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}

	if err := validateExcludes(cfg); err != nil {
		return nil, err
	}

	entries := cfg.Cache.Entries
	if entries <= 0 {
		entries = 1024
	}
	cache, err := lru.New[string, cachedAnalysis](entries)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "create result cache")
	}

	detector := deps.Detector
	if detector == nil {
		detector = unused.NewDetector(unused.Options{ExtraKeywords: cfg.Detector.ExtraKeywords})
	}

	extensions := make(map[string]bool)
	for _, ext := range cfg.Extensions() {
		extensions[ext] = true
	}

	return &App{
		Config:     cfg,
		Detector:   detector,
		extensions: extensions,
		results:    make(map[string]FileResult),
		cache:      cache,
		limiter:    util.NewLimiter(cfg.Watch.RescansPerSecond, 1),
		history:    deps.History,
	}, nil
}

func validateExcludes(cfg *config.Config) error {
	if _, err := compileGlobs(cfg.Exclude.Dirs, "exclude dir"); err != nil {
		return err
	}
	_, err := compileGlobs(cfg.Exclude.Files, "exclude file")
	return err
}

func compileGlobs(patterns []string, label string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			domainErr := errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid %s pattern", label))
			return nil, errors.AddContext(domainErr, errors.CtxPattern, p)
		}
		out = append(out, g)
	}
	return out, nil
}

// SetHistoryStore attaches a store; every later scan is recorded as a run.
func (a *App) SetHistoryStore(store HistoryStore) {
	a.history = store
}

func (a *App) SetUpdateHandler(handler func(Update)) {
	a.updateMu.Lock()
	defer a.updateMu.Unlock()
	a.onUpdate = handler
}

func (a *App) emitUpdate(update Update) {
	a.updateMu.RLock()
	handler := a.onUpdate
	a.updateMu.RUnlock()
	if handler != nil {
		handler(update)
	}
}

func (a *App) CurrentUpdate() Update {
	findings := a.Findings()
	a.resultsMu.RLock()
	fileCount := len(a.results)
	declarations := 0
	for _, res := range a.results {
		declarations += res.Declarations
	}
	a.resultsMu.RUnlock()

	return Update{
		Findings:     findings,
		FileCount:    fileCount,
		UnusedCount:  len(findings),
		Declarations: declarations,
		Timestamp:    time.Now().UTC(),
	}
}

// Findings returns all current findings ordered by path, then by position
// within the file.
func (a *App) Findings() []unused.Finding {
	a.resultsMu.RLock()
	defer a.resultsMu.RUnlock()

	out := make([]unused.Finding, 0)
	for _, path := range util.SortedStringKeys(a.results) {
		out = append(out, a.results[path].Findings...)
	}
	return out
}

// Result returns the stored result for path.
func (a *App) Result(path string) (FileResult, bool) {
	a.resultsMu.RLock()
	defer a.resultsMu.RUnlock()
	res, ok := a.results[path]
	return res, ok
}

// snapshot returns the config and detector as of the last reload.
func (a *App) snapshot() (*config.Config, *unused.Detector) {
	a.resultsMu.RLock()
	defer a.resultsMu.RUnlock()
	return a.Config, a.Detector
}

func (a *App) FileCount() int {
	a.resultsMu.RLock()
	defer a.resultsMu.RUnlock()
	return len(a.results)
}

func (a *App) storeResult(res FileResult) {
	a.resultsMu.Lock()
	a.results[res.Path] = res
	a.resultsMu.Unlock()
}

func (a *App) removeResult(path string) bool {
	a.resultsMu.Lock()
	defer a.resultsMu.Unlock()
	if _, ok := a.results[path]; !ok {
		return false
	}
	delete(a.results, path)
	return true
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	var firstErr error
	a.watchMu.Lock()
	if a.activeWatcher != nil {
		if err := a.activeWatcher.Close(); err != nil {
			firstErr = err
		}
		a.activeWatcher = nil
	}
	a.watchMu.Unlock()
	if a.history != nil {
		if err := a.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
