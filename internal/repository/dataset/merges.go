package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
)

// mergeSidecar is the JSON document the external spreadsheet converter writes
// next to a TSV export. Row indices are 0-based data rows (header excluded);
// column bounds are header texts from the same export.
type mergeSidecar struct {
	Ranges []mergeRange `json:"ranges"`
}

type mergeRange struct {
	MinRow      int    `json:"minRow"`
	MaxRow      int    `json:"maxRow"`
	FirstColumn string `json:"firstColumn"`
	LastColumn  string `json:"lastColumn"`
}

// readMergeSidecar loads <path>.merges.json. A missing sidecar means the
// source has no merge metadata at all (hasMerge false); a present but
// partially malformed one degrades entry by entry. The converter is
// best-effort, so strictness here would only lose data.
func (r *Repo) readMergeSidecar(path string) (ranges []span.Range, hasMerge bool) {
	sidecarPath := path + ".merges.json"
	data, err := os.ReadFile(filepath.Clean(sidecarPath))
	if err != nil {
		return nil, false
	}

	var sidecar mergeSidecar
	if err := json.Unmarshal(data, &sidecar); err != nil {
		r.logger.Warn("merge sidecar is not valid JSON, ignoring",
			zap.String("path", sidecarPath), zap.Error(err))
		return nil, false
	}

	out := make([]span.Range, 0, len(sidecar.Ranges))
	for _, m := range sidecar.Ranges {
		if m.FirstColumn == "" || m.LastColumn == "" || m.MinRow < 0 || m.MaxRow < 0 {
			r.logger.Warn("skipping malformed merge range",
				zap.String("path", sidecarPath),
				zap.Int("min_row", m.MinRow), zap.Int("max_row", m.MaxRow))
			continue
		}
		if m.MinRow > m.MaxRow {
			m.MinRow, m.MaxRow = m.MaxRow, m.MinRow
		}
		out = append(out, span.Range{
			MinRow:      m.MinRow,
			MaxRow:      m.MaxRow,
			FirstColumn: CanonicalColumn(m.FirstColumn),
			LastColumn:  CanonicalColumn(m.LastColumn),
		})
	}
	return out, true
}
