// Package dataset ingests TSV sources into normalized row records plus the
// optional merge-range metadata their sidecar files carry.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/parse"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/usecase/catalog"
)

// Lookups resolves depository names to their normalized abbreviations.
type Lookups interface {
	DepositoryAbbreviation(ctx context.Context, name string) (string, bool)
}

// Repo reads TSV datasets from a directory.
type Repo struct {
	dir     string
	lookups Lookups
	logger  *zap.Logger
}

// Compile-time check: Repo implements catalog.DatasetReader.
var _ catalog.DatasetReader = (*Repo)(nil)

// New creates a dataset repository. lookups may be nil (depository names are
// then used verbatim); logger may be nil.
func New(dir string, lookups Lookups, logger *zap.Logger) *Repo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repo{dir: dir, lookups: lookups, logger: logger}
}

// Read loads <dir>/<sourceID>.tsv and, when present, its merge sidecar.
// The header row drives column mapping: recognized headers map onto the known
// schema, everything else is kept verbatim as an extra column.
func (r *Repo) Read(ctx context.Context, sourceID string) (catalog.Dataset, error) {
	path := r.sourcePath(sourceID)

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return catalog.Dataset{}, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	raw, err := reader.ReadAll()
	if err != nil {
		return catalog.Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	if len(raw) == 0 {
		return catalog.Dataset{SourceID: sourceID}, nil
	}

	columns := make([]string, len(raw[0]))
	for i, h := range raw[0] {
		columns[i] = CanonicalColumn(h)
	}

	rows := make([]*record.Record, 0, len(raw)-1)
	for i, cells := range raw[1:] {
		rec := &record.Record{SourceID: sourceID, SourceRow: i}
		for c, col := range columns {
			if c < len(cells) {
				rec.SetValue(col, cells[c])
			}
		}
		rec.Depository = r.normalizeDepository(ctx, rec.Depository)
		rows = append(rows, rec)
	}

	ds := catalog.Dataset{
		SourceID: sourceID,
		Columns:  columns,
		Rows:     rows,
	}
	ds.Ranges, ds.HasMerge = r.readMergeSidecar(path)

	r.logger.Debug("dataset read",
		zap.String("source_id", sourceID),
		zap.Int("rows", len(rows)),
		zap.Int("columns", len(columns)),
		zap.Bool("merge_metadata", ds.HasMerge),
	)
	return ds, nil
}

// sourcePath resolves a source id to its TSV file.
func (r *Repo) sourcePath(sourceID string) string {
	name := sourceID
	if filepath.Ext(name) == "" {
		name += ".tsv"
	}
	return filepath.Join(r.dir, name)
}

// normalizeDepository replaces a full depository name with its catalog
// abbreviation when the lookup tables know it. Lookup failures degrade to the
// verbatim value.
func (r *Repo) normalizeDepository(ctx context.Context, raw string) string {
	if r.lookups == nil {
		return raw
	}
	if abbr, ok := r.lookups.DepositoryAbbreviation(ctx, raw); ok {
		return abbr
	}
	return raw
}

// columnAliases maps folded header texts onto the known schema. Headers map
// case- and diacritic-insensitively; unknown headers stay verbatim.
var columnAliases = map[string]string{
	"depository":       record.ColDepository,
	"repository":       record.ColDepository,
	"shelfmark":        record.ColShelfmark,
	"shelf mark":       record.ColShelfmark,
	"signature":        record.ColShelfmark,
	"name":             record.ColName,
	"main text":        record.ColMainText,
	"minor texts":      record.ColMinorTexts,
	"other texts":      record.ColMinorTexts,
	"production unit":  record.ColProductionUnit,
	"production units": record.ColProductionUnit,
	"dating":           record.ColDating,
	"date":             record.ColDating,
	"support":          record.ColSupport,
	"material":         record.ColSupport,
	"leaves":           record.ColLeaves,
	"folia":            record.ColLeaves,
	"columns":          record.ColColumns,
	"lines":            record.ColLines,
	"height":           record.ColHeight,
	"width":            record.ColWidth,
	"scribe":           record.ColScribe,
	"scribes":          record.ColScribe,
	"provenance":       record.ColProvenance,
	"links":            record.ColLinks,
	"link":             record.ColLinks,
	"bibliography":     record.ColBibliography,
	"literature":       record.ColBibliography,
}

// CanonicalColumn maps a header text onto the known schema, or returns the
// trimmed header verbatim when it is dataset-specific.
func CanonicalColumn(header string) string {
	h := strings.TrimSpace(header)
	if canonical, ok := columnAliases[parse.Fold(h)]; ok {
		return canonical
	}
	return h
}
