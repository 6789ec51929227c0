package formats

import (
	"fmt"
	"strings"

	"unusedvar/internal/engine/unused"
)

const tsvHeader = "path\tline\tstart\tend\tname\n"

// GenerateTSV renders one row per finding. Lines are 1-based, columns stay
// 0-based byte offsets.
func GenerateTSV(projectRoot string, findings []unused.Finding) string {
	var buf strings.Builder
	buf.WriteString(tsvHeader)
	for _, f := range findings {
		buf.WriteString(fmt.Sprintf("%s\t%d\t%d\t%d\t%s\n",
			relativeURI(projectRoot, f.Path),
			f.Line+1,
			f.StartColumn,
			f.EndColumn,
			f.Name,
		))
	}
	return buf.String()
}
