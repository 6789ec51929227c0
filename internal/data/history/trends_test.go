package history

import (
	"errors"
	"testing"
	"time"
)

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	runs := []Run{
		{ID: "r1", Timestamp: base, FileCount: 4, UnusedCount: 6},
		{ID: "r2", Timestamp: base.Add(2 * time.Hour), FileCount: 5, UnusedCount: 3},
		{ID: "r3", Timestamp: base.Add(30 * time.Hour), FileCount: 5, UnusedCount: 1},
	}

	report, err := BuildTrendReport(runs, 24*time.Hour)
	if err != nil {
		t.Fatalf("build trend: %v", err)
	}
	if report.ScanCount != 3 || report.Window != "24h0m0s" {
		t.Fatalf("unexpected report header %+v", report)
	}
	if !report.Since.Equal(base) || !report.Until.Equal(base.Add(30*time.Hour)) {
		t.Fatalf("unexpected range %v..%v", report.Since, report.Until)
	}

	second := report.Points[1]
	if second.DeltaFiles != 1 || second.DeltaUnused != -3 {
		t.Fatalf("unexpected deltas %+v", second)
	}
	if second.AvgUnused != 4.5 {
		t.Fatalf("expected avg 4.5 over both runs in window, got %v", second.AvgUnused)
	}
	// r1 and r2 both fall outside the 24h window ending at r3.
	if report.Points[2].AvgUnused != 1 {
		t.Fatalf("expected avg 1, got %v", report.Points[2].AvgUnused)
	}
	if report.Points[0].DeltaUnused != 0 || report.Points[0].WindowHours != 24 {
		t.Fatalf("unexpected first point %+v", report.Points[0])
	}
}

func TestBuildTrendReport_NoWindowUsesCurrentValue(t *testing.T) {
	report, err := BuildTrendReport([]Run{{UnusedCount: 7}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if report.Points[0].AvgUnused != 7 {
		t.Fatalf("expected 7, got %v", report.Points[0].AvgUnused)
	}
}

func TestBuildTrendReport_Empty(t *testing.T) {
	if _, err := BuildTrendReport(nil, time.Hour); !errors.Is(err, ErrNoRuns) {
		t.Fatalf("expected ErrNoRuns, got %v", err)
	}
}
