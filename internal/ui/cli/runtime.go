package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	coreapp "unusedvar/internal/core/app"
	"unusedvar/internal/core/config"
	"unusedvar/internal/data/history"
	"unusedvar/internal/engine/unused"
	"unusedvar/internal/shared/observability"
	"unusedvar/internal/shared/util"
	"unusedvar/internal/shared/version"
	"unusedvar/internal/ui/report"
)

const (
	exitOK       = 0
	exitError    = 1
	exitFindings = 2
)

// Run is the process entry point; it returns the exit code.
func Run(args []string) int {
	return run(args, os.Stdin, os.Stdout, os.Stderr)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	if opts.version {
		fmt.Fprintf(stdout, "unusedvar v%s\n", version.Version)
		return exitOK
	}

	cleanupLogs := configureLogging(opts.ui, opts.verbose, stderr)
	defer cleanupLogs()

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return exitError
	}

	if err := config.LoadDotEnv(filepath.Join(cwd, ".env")); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, fromFile, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "path", opts.configPath, "error", err)
		return exitError
	}
	if !fromFile {
		slog.Debug("config file not found, using defaults", "path", opts.configPath)
	}

	if err := applyModeOptions(&opts, cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	if opts.stdin {
		return runStdin(opts, cfg, stdin, stdout)
	}

	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		slog.Error("failed to resolve runtime paths", "error", err)
		return exitError
	}
	cfg.DB.Path = paths.DBPath
	cfg.Output.Root = paths.OutputRoot

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Observability.ServiceName, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		return exitError
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	historyStore, err := openHistoryStoreIfEnabled(cfg)
	if err != nil {
		slog.Error("history setup failed", "error", err)
		return exitError
	}

	deps := coreapp.Dependencies{}
	if historyStore != nil {
		deps.History = historyStore
	}
	app, err := coreapp.NewWithDependencies(cfg, deps)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		if historyStore != nil {
			_ = historyStore.Close()
		}
		return exitError
	}
	defer func() {
		if err := app.Close(context.Background()); err != nil {
			slog.Warn("failed to close app", "error", err)
		}
	}()

	result, err := app.ScanService().Scan(ctx, coreapp.ScanRequest{})
	if err != nil {
		slog.Error("initial scan failed", "error", err)
		return exitError
	}
	for _, warning := range result.Warnings {
		slog.Warn(warning)
	}

	// History mode is a one-shot report.
	if opts.history {
		if _, err := runHistoryMode(opts, cfg, historyStore, stdout); err != nil {
			slog.Error("history mode failed", "error", err)
			return exitError
		}
		return exitOK
	}

	if !opts.ui {
		if err := writeReport(stdout, opts.format, app.ReportData(app.Findings())); err != nil {
			slog.Error("failed to write report", "error", err)
			return exitError
		}
	}

	if opts.once {
		if opts.failOnFindings && result.UnusedCount > 0 {
			return exitFindings
		}
		return exitOK
	}

	if cfg.Observability.Enabled {
		server := NewObservabilityServer(fmt.Sprintf(":%d", cfg.Observability.Port), coreapp.NewHealthService(app))
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return exitError
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(shutdownCtx)
		}()
	}

	if err := app.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		return exitError
	}

	if fromFile {
		cfgWatcher := config.NewWatcher(opts.configPath, func(next *config.Config) {
			next.DB.Path = cfg.DB.Path
			next.Output.Root = cfg.Output.Root
			if len(opts.args) == 1 {
				next.WatchPaths = cfg.WatchPaths
			}
			if err := app.UpdateConfig(ctx, next); err != nil {
				slog.Warn("failed to apply reloaded config", "error", err)
			}
		})
		if err := cfgWatcher.Start(ctx); err != nil {
			slog.Warn("config hot reload unavailable", "error", err)
		} else {
			defer cfgWatcher.Stop()
		}
	}

	if opts.ui {
		if err := runUI(ctx, app); err != nil {
			slog.Error("failed to run UI", "error", err)
			return exitError
		}
		return exitOK
	}

	app.SetUpdateHandler(func(update coreapp.Update) {
		if err := writeReport(stdout, opts.format, app.ReportData(update.Findings)); err != nil {
			slog.Error("failed to write report", "error", err)
		}
	})

	<-ctx.Done()
	slog.Info("shutting down")
	return exitOK
}

// runStdin is the editor-integration path: no filesystem, no history.
func runStdin(opts cliOptions, cfg *config.Config, stdin io.Reader, stdout io.Writer) int {
	content, err := io.ReadAll(stdin)
	if err != nil {
		slog.Error("failed to read stdin", "error", err)
		return exitError
	}

	detector := unused.NewDetector(unused.Options{ExtraKeywords: cfg.Detector.ExtraKeywords})
	analysis := detector.Analyze(string(content))
	findings := analysis.Findings("<stdin>")

	data := report.Data{
		ProjectName:  cfg.ProjectKey,
		FileCount:    1,
		Declarations: len(analysis.Declarations),
		Findings:     findings,
		GeneratedAt:  time.Now().UTC(),
	}
	if err := writeReport(stdout, opts.format, data); err != nil {
		slog.Error("failed to write report", "error", err)
		return exitError
	}
	if opts.failOnFindings && len(findings) > 0 {
		return exitFindings
	}
	return exitOK
}

func writeReport(w io.Writer, format string, data report.Data) error {
	body, err := report.Render(format, data)
	if err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func applyModeOptions(opts *cliOptions, cfg *config.Config) error {
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	if opts.format == "" {
		opts.format = report.FormatText
	}
	if !slices.Contains(report.Formats(), opts.format) {
		return fmt.Errorf("--format must be one of %s, got %q", strings.Join(report.Formats(), ", "), opts.format)
	}

	if opts.once && opts.ui {
		return fmt.Errorf("--once and --ui cannot be combined")
	}
	if opts.history && opts.ui {
		return fmt.Errorf("--history cannot be combined with --ui")
	}
	if opts.stdin && (opts.ui || opts.history) {
		return fmt.Errorf("--stdin cannot be combined with --ui or --history")
	}
	if opts.stdin && len(opts.args) > 0 {
		return fmt.Errorf("--stdin does not accept path arguments")
	}
	if !opts.history && (opts.historyTSV != "" || opts.historyJSON != "" || opts.since != "") {
		return fmt.Errorf("--since, --history-tsv and --history-json require --history")
	}
	if opts.history && !cfg.DB.Enabled {
		return fmt.Errorf("--history requires db.enabled = true")
	}

	if len(opts.args) > 1 {
		return fmt.Errorf("expected at most one path argument, got %d", len(opts.args))
	}
	if len(opts.args) == 1 {
		cfg.WatchPaths = []string{opts.args[0]}
	}
	return nil
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("--since must be RFC3339 or YYYY-MM-DD, got %q", value)
}

func parseHistoryWindow(value string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("--history-window must be a Go duration (example: 24h), got %q", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("--history-window must be > 0, got %q", value)
	}
	return d, nil
}

func runHistoryMode(opts cliOptions, cfg *config.Config, store *history.Store, stdout io.Writer) (*history.TrendReport, error) {
	if store == nil {
		return nil, fmt.Errorf("history store unavailable")
	}

	since, err := parseSince(opts.since)
	if err != nil {
		return nil, err
	}
	window, err := parseHistoryWindow(opts.historyWindow)
	if err != nil {
		return nil, err
	}

	runs, err := store.LoadRuns(cfg.ProjectKey, since)
	if err != nil {
		return nil, err
	}
	trend, err := history.BuildTrendReport(runs, window)
	if errors.Is(err, history.ErrNoRuns) {
		fmt.Fprintln(stdout, "History: no runs matched the requested time window.")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(stdout,
		"History: %d runs from %s to %s\n",
		trend.ScanCount,
		trend.Since.Format("2006-01-02 15:04:05"),
		trend.Until.Format("2006-01-02 15:04:05"),
	)
	latest := trend.Points[len(trend.Points)-1]
	fmt.Fprintf(stdout,
		"Trend latest: files=%d (%+d), unused=%d (%+d), avg unused=%.2f\n",
		latest.FileCount,
		latest.DeltaFiles,
		latest.UnusedCount,
		latest.DeltaUnused,
		latest.AvgUnused,
	)

	if opts.historyTSV != "" {
		tsv, err := report.RenderTrendTSV(trend)
		if err != nil {
			return nil, fmt.Errorf("render trend TSV: %w", err)
		}
		if err := util.WriteFileWithDirs(opts.historyTSV, tsv, 0o644); err != nil {
			return nil, fmt.Errorf("write trend TSV %q: %w", opts.historyTSV, err)
		}
	}

	if opts.historyJSON != "" {
		raw, err := report.RenderTrendJSON(trend)
		if err != nil {
			return nil, fmt.Errorf("render trend JSON: %w", err)
		}
		if err := util.WriteFileWithDirs(opts.historyJSON, raw, 0o644); err != nil {
			return nil, fmt.Errorf("write trend JSON %q: %w", opts.historyJSON, err)
		}
	}

	return &trend, nil
}

func openHistoryStoreIfEnabled(cfg *config.Config) (*history.Store, error) {
	if !cfg.DB.Enabled {
		return nil, nil
	}
	return history.Open(cfg.DB.Path)
}

func configureLogging(uiMode, verbose bool, fallback io.Writer) func() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := fallback
	var closeFn func() = func() {}
	if uiMode {
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "unusedvar", "unusedvar.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "unusedvar", "unusedvar.log")
	}

	return "unusedvar.log"
}
