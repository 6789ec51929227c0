package cli

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	coreapp "unusedvar/internal/core/app"
	"unusedvar/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = "int main() {\n  int unused;\n  int used = 5;\n  std::cout << used;\n}"

func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.toml")
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigPath, opts.configPath)
	assert.Equal(t, "text", opts.format)
	assert.Equal(t, "24h", opts.historyWindow)
	assert.False(t, opts.once)
	assert.Empty(t, opts.args)
}

func TestParseOptions_UnknownFlag(t *testing.T) {
	_, err := parseOptions([]string{"-nope"}, io.Discard)
	require.Error(t, err)
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "", "-version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "unusedvar v"))
}

func TestRun_Stdin(t *testing.T) {
	code, out, _ := runCLI(t, sampleSource, "-stdin", "-config", missingConfig(t))

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "<stdin>:2:7: unused variable 'unused'\n1 unused variable(s) in 1 file(s)\n", out)
}

func TestRun_StdinFailOnFindingsAndTSV(t *testing.T) {
	code, out, _ := runCLI(t, sampleSource, "-stdin", "-format", "tsv", "-fail-on-findings", "-config", missingConfig(t))

	assert.Equal(t, exitFindings, code)
	assert.Equal(t, "path\tline\tstart\tend\tname\n<stdin>\t2\t6\t12\tunused\n", out)
}

func TestRun_StdinCleanInput(t *testing.T) {
	code, out, _ := runCLI(t, "int x = 1;\nreturn x;", "-stdin", "-fail-on-findings", "-config", missingConfig(t))

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "0 unused variable(s) in 1 file(s)\n", out)
}

func TestRun_OnceScansPathArgument(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "main.cpp", sampleSource)

	code, out, _ := runCLI(t, "", "-once", "-config", missingConfig(t), dir)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, path+":2:7: unused variable 'unused'\n")

	code, _, _ = runCLI(t, "", "-once", "-fail-on-findings", "-config", missingConfig(t), dir)
	assert.Equal(t, exitFindings, code)
}

func TestRun_InvalidFormat(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-once", "-format", "html", "-config", missingConfig(t), t.TempDir())
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "--format must be one of")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("version = 7\n"), 0o644))

	code, _, _ := runCLI(t, "", "-once", "-config", cfgPath)
	assert.Equal(t, exitError, code)
}

func TestRun_HistoryTrend(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.cpp", sampleSource)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	tsvPath := filepath.Join(t.TempDir(), "trend.tsv")

	cfgPath := filepath.Join(t.TempDir(), "unusedvar.toml")
	body := fmt.Sprintf("version = 1\nwatch_paths = [%q]\n\n[db]\nenabled = true\npath = %q\n", dir, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	code, _, _ := runCLI(t, "", "-once", "-config", cfgPath)
	require.Equal(t, exitOK, code)

	code, out, _ := runCLI(t, "", "-once", "-history", "-history-tsv", tsvPath, "-config", cfgPath)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "History: 2 runs")
	assert.Contains(t, out, "unused=1 (+0)")

	raw, err := os.ReadFile(tsvPath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(raw), "\n"), "header plus one row per run")
}

func TestRun_HistoryWithoutOnceExits(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.cpp", sampleSource)
	dbPath := filepath.Join(t.TempDir(), "history.db")

	cfgPath := filepath.Join(t.TempDir(), "unusedvar.toml")
	body := fmt.Sprintf("version = 1\nwatch_paths = [%q]\n\n[db]\nenabled = true\npath = %q\n", dir, dbPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	done := make(chan int, 1)
	var stdout, stderr bytes.Buffer
	go func() {
		done <- run([]string{"-history", "-config", cfgPath}, strings.NewReader(""), &stdout, &stderr)
	}()

	select {
	case code := <-done:
		assert.Equal(t, exitOK, code)
		assert.Contains(t, stdout.String(), "History: 1 runs")
		assert.NotContains(t, stdout.String(), "unused variable(s)")
	case <-time.After(10 * time.Second):
		t.Fatal("history mode did not exit")
	}
}

func TestApplyModeOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    cliOptions
		dbOn    bool
		wantErr string
	}{
		{name: "once and ui", opts: cliOptions{once: true, ui: true, format: "text"}, wantErr: "cannot be combined"},
		{name: "history and ui", opts: cliOptions{history: true, ui: true, format: "text"}, dbOn: true, wantErr: "--history cannot be combined"},
		{name: "stdin and ui", opts: cliOptions{stdin: true, ui: true, format: "text"}, wantErr: "--stdin cannot be combined"},
		{name: "stdin with path", opts: cliOptions{stdin: true, format: "text", args: []string{"x"}}, wantErr: "does not accept path"},
		{name: "history outputs need history", opts: cliOptions{historyTSV: "t.tsv", format: "text"}, wantErr: "require --history"},
		{name: "history needs db", opts: cliOptions{history: true, format: "text"}, wantErr: "db.enabled"},
		{name: "too many paths", opts: cliOptions{format: "text", args: []string{"a", "b"}}, wantErr: "at most one path"},
		{name: "history with db", opts: cliOptions{history: true, format: "yaml"}, dbOn: true},
		{name: "empty format defaults to text", opts: cliOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.DB.Enabled = tt.dbOn
			opts := tt.opts
			err := applyModeOptions(&opts, cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.NotEmpty(t, opts.format)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyModeOptions_OverridesWatchPathWithPositionalArg(t *testing.T) {
	opts := &cliOptions{format: "TSV", args: []string{"./override"}}
	cfg := &config.Config{WatchPaths: []string{"./original"}}

	require.NoError(t, applyModeOptions(opts, cfg))
	assert.Equal(t, []string{"./override"}, cfg.WatchPaths)
	assert.Equal(t, "tsv", opts.format)
}

func TestParseSince(t *testing.T) {
	got, err := parseSince("2026-10-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = parseSince("2026-10-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC), got)

	got, err = parseSince("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseSince("yesterday")
	require.Error(t, err)
}

func TestParseHistoryWindow(t *testing.T) {
	d, err := parseHistoryWindow("")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, d)

	d, err = parseHistoryWindow("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = parseHistoryWindow("-1h")
	require.Error(t, err)
	_, err = parseHistoryWindow("soon")
	require.Error(t, err)
}

func TestResolveLogPath_UsesXDGStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "unusedvar", "unusedvar.log"), resolveLogPath())
}

func TestConfigureLogging_UIModeWritesToStateFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	cleanup := configureLogging(true, false, io.Discard)
	defer configureLogging(false, false, io.Discard)
	defer cleanup()

	_, err := os.Stat(filepath.Join(dir, "unusedvar", "unusedvar.log"))
	require.NoError(t, err)
}

func TestObservabilityServer_Health(t *testing.T) {
	a, err := coreapp.New(config.Default())
	require.NoError(t, err)
	server := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(a))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"up"`)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "unusedvar_files_scanned_total")
}

func TestObservabilityServer_DegradedHealth(t *testing.T) {
	cfg := config.Default()
	cfg.DB.Enabled = true
	a, err := coreapp.New(cfg)
	require.NoError(t, err)
	server := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(a))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestObservabilityServer_StartStop(t *testing.T) {
	a, err := coreapp.New(config.Default())
	require.NoError(t, err)
	server := NewObservabilityServer("127.0.0.1:0", coreapp.NewHealthService(a))
	require.NoError(t, server.Start(t.Context()))

	resp, err := http.Get("http://" + server.Addr() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Stop(t.Context()))
}
