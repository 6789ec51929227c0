package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
)

const DefaultFile = "unusedvar.toml"

type Config struct {
	Version       int           `toml:"version"`
	ProjectKey    string        `toml:"project_key"`
	WatchPaths    []string      `toml:"watch_paths"`
	Languages     Languages     `toml:"languages"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Detector      Detector      `toml:"detector"`
	Cache         Cache         `toml:"cache"`
	DB            Database      `toml:"db"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
}

type Languages struct {
	CPP Language `toml:"cpp"`
}

type Language struct {
	Extensions []string `toml:"extensions"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	// Debounce defaults to 500ms when unset. An explicit 0 hands every change
	// to the scanner as soon as it arrives.
	Debounce         time.Duration `toml:"debounce"`
	RescansPerSecond float64       `toml:"rescans_per_second"`

	debounceSet bool
}

type Detector struct {
	ExtraKeywords []string `toml:"extra_keywords"`
}

type Cache struct {
	Entries int `toml:"entries"`
}

type Database struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Output struct {
	Root     string `toml:"root"`
	SARIF    string `toml:"sarif"`
	TSV      string `toml:"tsv"`
	Markdown string `toml:"markdown"`
	YAML     string `toml:"yaml"`
}

type Observability struct {
	Enabled      bool   `toml:"enabled"`
	Port         int    `toml:"port"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

var defaultExtensions = []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".h", ".hxx"}

// Default returns a config with every default applied and nothing loaded.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.Watch.debounceSet = meta.IsDefined("watch", "debounce")

	ApplyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults plus env
// overrides when path does not exist. The bool reports whether a file was read.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, err
	}

	cfg = &Config{}
	ApplyEnvOverrides(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.ProjectKey) == "" {
		cfg.ProjectKey = "default"
	}
	if len(cfg.WatchPaths) == 0 {
		cfg.WatchPaths = []string{"."}
	}
	if len(cfg.Languages.CPP.Extensions) == 0 {
		cfg.Languages.CPP.Extensions = append([]string(nil), defaultExtensions...)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "build", "node_modules"}
	}
	if cfg.Watch.Debounce == 0 && !cfg.Watch.debounceSet {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSecond <= 0 {
		cfg.Watch.RescansPerSecond = 4
	}
	if cfg.Cache.Entries <= 0 {
		cfg.Cache.Entries = 1024
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "data/database/unusedvar.db"
	}
	if strings.TrimSpace(cfg.Output.Root) == "" {
		cfg.Output.Root = "."
	}
	if cfg.Observability.Port == 0 {
		cfg.Observability.Port = 9464
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "unusedvar"
	}
}

func Validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	for i, path := range cfg.WatchPaths {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("watch_paths[%d] must not be empty", i)
		}
	}
	for i, ext := range cfg.Languages.CPP.Extensions {
		ext = strings.TrimSpace(ext)
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("languages.cpp.extensions[%d] must start with '.', got %q", i, ext)
		}
	}
	if err := validateGlobs("exclude.dirs", cfg.Exclude.Dirs); err != nil {
		return err
	}
	if err := validateGlobs("exclude.files", cfg.Exclude.Files); err != nil {
		return err
	}
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Observability.Port < 0 || cfg.Observability.Port > 65535 {
		return fmt.Errorf("observability.port must be between 0 and 65535, got %d", cfg.Observability.Port)
	}
	for i, kw := range cfg.Detector.ExtraKeywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("detector.extra_keywords[%d] must not be empty", i)
		}
	}
	return nil
}

func validateGlobs(field string, patterns []string) error {
	for i, pattern := range patterns {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("%s[%d] invalid pattern %q: %w", field, i, pattern, err)
		}
	}
	return nil
}

// Extensions returns the normalized C++ extension list.
func (c *Config) Extensions() []string {
	out := make([]string, 0, len(c.Languages.CPP.Extensions))
	for _, ext := range c.Languages.CPP.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
