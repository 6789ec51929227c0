package app

import (
	"path/filepath"
	"strings"
	"time"

	"unusedvar/internal/core/errors"
	"unusedvar/internal/engine/unused"
	"unusedvar/internal/shared/util"
	"unusedvar/internal/ui/report"
)

type outputTarget struct {
	format string
	path   string
}

func (a *App) resolveOutputTargets() ([]outputTarget, error) {
	root, err := a.resolveOutputRoot()
	if err != nil {
		return nil, err
	}
	candidates := []outputTarget{
		{format: report.FormatSARIF, path: a.Config.Output.SARIF},
		{format: report.FormatTSV, path: a.Config.Output.TSV},
		{format: report.FormatMarkdown, path: a.Config.Output.Markdown},
		{format: report.FormatYAML, path: a.Config.Output.YAML},
	}
	targets := make([]outputTarget, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.path) == "" {
			continue
		}
		targets = append(targets, outputTarget{format: c.format, path: util.ResolveUnder(root, c.path)})
	}
	return targets, nil
}

func (a *App) resolveOutputRoot() (string, error) {
	root := strings.TrimSpace(a.Config.Output.Root)
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "resolve output root"), errors.CtxPath, root)
	}
	return abs, nil
}

// ReportData snapshots the current results for rendering.
func (a *App) ReportData(findings []unused.Finding) report.Data {
	update := a.CurrentUpdate()
	root, err := a.resolveOutputRoot()
	if err != nil {
		root = ""
	}
	return report.Data{
		ProjectName:  a.Config.ProjectKey,
		ProjectRoot:  root,
		FileCount:    update.FileCount,
		Declarations: update.Declarations,
		Findings:     findings,
		GeneratedAt:  time.Now().UTC(),
	}
}

// GenerateOutputs writes every report configured under [output].
func (a *App) GenerateOutputs(findings []unused.Finding) error {
	targets, err := a.resolveOutputTargets()
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return nil
	}

	data := a.ReportData(findings)
	for _, target := range targets {
		body, err := report.Render(target.format, data)
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(target.path, body, 0o644); err != nil {
			return errors.AddContext(errors.Wrap(err, errors.CodeInternal, "write "+target.format+" report"), errors.CtxPath, target.path)
		}
	}
	return nil
}
