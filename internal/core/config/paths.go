package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// projectMarkers identify the root of a C++ project, nearest first.
var projectMarkers = []string{
	DefaultFile,
	".git",
	"CMakeLists.txt",
	"compile_commands.json",
}

type ResolvedPaths struct {
	ProjectRoot string
	DBPath      string
	OutputRoot  string
}

// ResolvePaths anchors the relative database and output paths of cfg at the
// detected project root.
func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	candidates := make([]string, 0, len(cfg.WatchPaths)+1)
	for _, p := range cfg.WatchPaths {
		candidates = append(candidates, ResolveRelative(cwd, p))
	}
	candidates = append(candidates, cwd)
	projectRoot, err := DetectProjectRoot(candidates)
	if err != nil {
		return ResolvedPaths{}, err
	}

	return ResolvedPaths{
		ProjectRoot: filepath.Clean(projectRoot),
		DBPath:      ResolveRelative(projectRoot, cfg.DB.Path),
		OutputRoot:  ResolveRelative(projectRoot, cfg.Output.Root),
	}, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}

func DetectProjectRoot(candidates []string) (string, error) {
	for _, candidate := range candidates {
		if strings.TrimSpace(candidate) == "" {
			continue
		}

		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		root := abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			root = filepath.Dir(abs)
		}

		for {
			for _, marker := range projectMarkers {
				if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
					return filepath.Clean(root), nil
				}
			}
			parent := filepath.Dir(root)
			if parent == root {
				break
			}
			root = parent
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Clean(cwd), nil
}
