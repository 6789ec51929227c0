package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"unusedvar/internal/data/history"
)

func RenderTrendTSV(report history.TrendReport) ([]byte, error) {
	var buf strings.Builder

	buf.WriteString("Timestamp\tRun\tFiles\tDeclarations\tUnused\tDeltaFiles\tDeltaUnused\tAvgUnused\tWindowHours\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%d\t%d\t%d\t%d\t%d\t%.2f\t%.2f\n",
			point.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			point.RunID,
			point.FileCount,
			point.DeclarationCount,
			point.UnusedCount,
			point.DeltaFiles,
			point.DeltaUnused,
			point.AvgUnused,
			point.WindowHours,
		))
	}

	return []byte(buf.String()), nil
}

func RenderTrendJSON(report history.TrendReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
