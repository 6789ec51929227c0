package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnvOverrides applies UNUSEDVAR_[SECTION]_[KEY] environment overrides.
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.ProjectKey, "UNUSEDVAR_PROJECT_KEY")
	setEnvList(&cfg.WatchPaths, "UNUSEDVAR_WATCH_PATHS")

	if setEnvDuration(&cfg.Watch.Debounce, "UNUSEDVAR_WATCH_DEBOUNCE") {
		cfg.Watch.debounceSet = true
	}
	setEnvFloat64(&cfg.Watch.RescansPerSecond, "UNUSEDVAR_WATCH_RESCANS_PER_SECOND")

	setEnvList(&cfg.Detector.ExtraKeywords, "UNUSEDVAR_DETECTOR_EXTRA_KEYWORDS")
	setEnvInt(&cfg.Cache.Entries, "UNUSEDVAR_CACHE_ENTRIES")

	setEnvBool(&cfg.DB.Enabled, "UNUSEDVAR_DB_ENABLED")
	setEnvString(&cfg.DB.Path, "UNUSEDVAR_DB_PATH")

	setEnvString(&cfg.Output.Root, "UNUSEDVAR_OUTPUT_ROOT")
	setEnvString(&cfg.Output.SARIF, "UNUSEDVAR_OUTPUT_SARIF")

	setEnvBool(&cfg.Observability.Enabled, "UNUSEDVAR_OBSERVABILITY_ENABLED")
	setEnvInt(&cfg.Observability.Port, "UNUSEDVAR_OBSERVABILITY_PORT")
	setEnvString(&cfg.Observability.OTLPEndpoint, "UNUSEDVAR_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key)
		*target = val
	}
}

func setEnvList(target *[]string, key string) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	slog.Debug("applying env override", "key", key)
	*target = out
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) bool {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key)
			*target = d
			return true
		}
	}
	return false
}
