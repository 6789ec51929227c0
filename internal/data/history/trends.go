package history

import (
	"errors"
	"math"
	"time"
)

var ErrNoRuns = errors.New("no scan runs available")

// BuildTrendReport derives per-run deltas and a moving average of the unused
// count over window. runs must be ordered oldest first, as LoadRuns returns
// them.
func BuildTrendReport(runs []Run, window time.Duration) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, ErrNoRuns
	}

	points := make([]TrendPoint, 0, len(runs))
	for i, current := range runs {
		point := TrendPoint{
			RunID:            current.ID,
			Timestamp:        current.Timestamp,
			FileCount:        current.FileCount,
			DeclarationCount: current.DeclarationCount,
			UnusedCount:      current.UnusedCount,
		}
		if i > 0 {
			prev := runs[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaUnused = current.UnusedCount - prev.UnusedCount
		}
		point.AvgUnused = round2(movingAverage(runs, i, window))
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         runs[0].Timestamp,
		Until:         runs[len(runs)-1].Timestamp,
		Window:        window.String(),
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverage(runs []Run, index int, window time.Duration) float64 {
	if window <= 0 {
		return float64(runs[index].UnusedCount)
	}

	cutoff := runs[index].Timestamp.Add(-window)
	total := 0
	count := 0
	for i := index; i >= 0; i-- {
		if runs[i].Timestamp.Before(cutoff) {
			break
		}
		total += runs[i].UnusedCount
		count++
	}
	return float64(total) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
