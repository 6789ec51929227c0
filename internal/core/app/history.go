package app

import (
	"log/slog"

	"unusedvar/internal/data/history"
	"unusedvar/internal/shared/observability"
)

func (a *App) recordRun(update Update) {
	if a.history == nil {
		return
	}

	run := history.Run{
		Timestamp:        update.Timestamp,
		FileCount:        update.FileCount,
		DeclarationCount: update.Declarations,
		UnusedCount:      update.UnusedCount,
		Findings:         make([]history.Finding, 0, len(update.Findings)),
	}
	for _, f := range update.Findings {
		run.Findings = append(run.Findings, history.Finding{
			Path:     f.Path,
			Name:     f.Name,
			Line:     f.Line,
			StartCol: f.StartColumn,
			EndCol:   f.EndColumn,
		})
	}

	runID, err := a.history.SaveRun(a.Config.ProjectKey, run)
	if err != nil {
		observability.HistoryWriteErrorsTotal.Inc()
		slog.Warn("failed to save history run", "error", err)
		return
	}
	slog.Debug("saved history run", "run_id", runID, "unused", run.UnusedCount)
}
