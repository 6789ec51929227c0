package app

import (
	"context"
	"fmt"

	"unusedvar/internal/core/errors"
	"unusedvar/internal/shared/observability"
	"unusedvar/internal/shared/util"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ScanRequest struct {
	// Paths overrides the configured watch paths when non-empty.
	Paths []string
}

type ScanResult struct {
	FilesScanned int
	UnusedCount  int
	Warnings     []string
}

// ScanService is the one-shot entry point used by the CLI.
type ScanService struct {
	app *App
}

func (a *App) ScanService() *ScanService {
	return &ScanService{app: a}
}

func (s *ScanService) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "scanService.Scan", trace.WithAttributes(
		attribute.Int("scan.paths", len(req.Paths)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		return ScanResult{}, err
	}
	if s.app == nil || s.app.Config == nil {
		return ScanResult{}, errors.New(errors.CodeValidationError, "app is required")
	}

	if len(req.Paths) == 0 {
		if err := s.app.InitialScan(ctx); err != nil {
			span.RecordError(err)
			return ScanResult{}, errors.AddContext(err, errors.CtxOperation, "initial_scan")
		}
		update := s.app.CurrentUpdate()
		return ScanResult{FilesScanned: update.FileCount, UnusedCount: update.UnusedCount}, nil
	}

	files, err := s.app.ScanDirectories(util.UniqueScanRoots(req.Paths), s.app.Config.Exclude.Dirs, s.app.Config.Exclude.Files)
	if err != nil {
		span.RecordError(err)
		return ScanResult{}, errors.AddContext(err, errors.CtxOperation, "scan_directories")
	}

	warnings := make([]string, 0)
	for _, filePath := range files {
		if err := ctx.Err(); err != nil {
			return ScanResult{}, err
		}
		if err := s.app.ProcessFile(ctx, filePath); err != nil {
			warnings = append(warnings, fmt.Sprintf("process file %s: %v", filePath, err))
		}
	}

	update := s.app.CurrentUpdate()
	s.app.recordGauges(update)
	s.app.recordRun(update)
	if err := s.app.GenerateOutputs(update.Findings); err != nil {
		warnings = append(warnings, fmt.Sprintf("generate outputs: %v", err))
	}
	s.app.emitUpdate(update)
	span.SetAttributes(attribute.Int("unused.count", update.UnusedCount))
	return ScanResult{
		FilesScanned: len(files),
		UnusedCount:  update.UnusedCount,
		Warnings:     warnings,
	}, nil
}
