// Package merge reconstructs the per-manuscript span map from spreadsheet
// merge-range metadata, or from a constant-value heuristic when no metadata
// exists.
package merge

import (
	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/domain"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
)

// Service is the merge reconstruction engine. It never fails on malformed
// metadata: offending ranges are skipped and flagged, the rest applied.
type Service struct {
	logger *zap.Logger
}

// New creates a merge engine. logger may be nil.
func New(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// BuildSpanMap computes the span map for one manuscript's row block against
// the caller's visible-column order. rangesBySource maps source ids to their
// merge ranges; when sourceID has no entry the engine returns
// domain.ErrNoMergeMetadata and the caller switches to HeuristicSpanMap.
//
// Ranges degrade individually: a range is flagged and skipped when its row
// interval is not fully inside the block, when a column bound does not
// resolve against fullColumns, when none of its columns are visible, or when
// it resolves to a 1x1 span. Hidden columns inside a merged region shrink the
// rendered span rather than breaking it. When two ranges claim the same
// origin cell the later one wins and the conflict is flagged.
func (s *Service) BuildSpanMap(
	rows []*record.Record,
	sourceID string,
	fullColumns, visibleColumns []string,
	rangesBySource map[string][]span.Range,
) (*span.Map, error) {
	ranges, ok := rangesBySource[sourceID]
	if !ok {
		return nil, domain.ErrNoMergeMetadata
	}

	localRow := make(map[int]int, len(rows))
	for i, r := range rows {
		localRow[r.SourceRow] = i
	}

	fullIndex := make(map[string]int, len(fullColumns))
	for i, c := range fullColumns {
		fullIndex[c] = i
	}
	visibleIndex := make(map[string]int, len(visibleColumns))
	for i, c := range visibleColumns {
		visibleIndex[c] = i
	}

	m := span.NewMap(visibleColumns)
	for _, rng := range ranges {
		s.applyRange(m, rng, localRow, fullColumns, fullIndex, visibleIndex)
	}
	return m, nil
}

func (s *Service) applyRange(
	m *span.Map,
	rng span.Range,
	localRow map[int]int,
	fullColumns []string,
	fullIndex, visibleIndex map[string]int,
) {
	firstCol, ok := fullIndex[rng.FirstColumn]
	if !ok {
		m.AddFlag(rng, span.UnresolvableColumn)
		return
	}
	lastCol, ok := fullIndex[rng.LastColumn]
	if !ok {
		m.AddFlag(rng, span.UnresolvableColumn)
		return
	}
	if firstCol > lastCol {
		firstCol, lastCol = lastCol, firstCol
	}

	// Every source row of the interval must sit inside this block; partial
	// containment would corrupt the grid, so the whole range is dropped.
	rowLo, rowHi := -1, -1
	for src := rng.MinRow; src <= rng.MaxRow; src++ {
		local, present := localRow[src]
		if !present {
			m.AddFlag(rng, span.RangeOutOfBounds)
			return
		}
		if rowLo == -1 || local < rowLo {
			rowLo = local
		}
		if local > rowHi {
			rowHi = local
		}
	}

	// Remap the full-column interval onto the visible grid.
	colLo, colHi := -1, -1
	for fi := firstCol; fi <= lastCol; fi++ {
		vi, visible := visibleIndex[fullColumns[fi]]
		if !visible {
			continue
		}
		if colLo == -1 || vi < colLo {
			colLo = vi
		}
		if vi > colHi {
			colHi = vi
		}
	}
	if colLo == -1 {
		m.AddFlag(rng, span.ColumnsHidden)
		return
	}

	extent := span.Extent{RowSpan: rowHi - rowLo + 1, ColSpan: colHi - colLo + 1}
	if extent.RowSpan == 1 && extent.ColSpan == 1 {
		m.AddFlag(rng, span.SingleCell)
		return
	}

	origin := span.Cell{Row: rowLo, Col: colLo}
	if m.SetOrigin(origin, extent) {
		// Overlapping merges are an input-quality artifact of the upstream
		// converter; the later range wins.
		m.AddFlag(rng, span.OriginConflict)
		s.logger.Warn("conflicting merge ranges on one origin cell",
			zap.Int("local_row", origin.Row),
			zap.Int("local_col", origin.Col),
			zap.Int("min_row", rng.MinRow),
			zap.Int("max_row", rng.MaxRow),
		)
	}
	for row := rowLo; row <= rowHi; row++ {
		for col := colLo; col <= colHi; col++ {
			if row == rowLo && col == colLo {
				continue
			}
			m.Cover(span.Cell{Row: row, Col: col})
		}
	}
}
