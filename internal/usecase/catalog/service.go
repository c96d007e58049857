// Package catalog owns the loaded dataset snapshot and exposes the catalog's
// operations: query (filter + live counts), span maps, and detail lookups.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/domain"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/facet"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/manuscript"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/parse"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
	"github.com/PatrikGranholm/nordiclaw/internal/metrics"
	facetuc "github.com/PatrikGranholm/nordiclaw/internal/usecase/facet"
	mergeuc "github.com/PatrikGranholm/nordiclaw/internal/usecase/merge"
)

// Mode selects the query granularity.
type Mode string

// Query modes.
const (
	// RowMode filters and counts individual rows (flat table view).
	RowMode Mode = "rows"
	// ManuscriptMode filters and counts grouped manuscripts (merged view).
	ManuscriptMode Mode = "manuscripts"
)

// Snapshot is one immutable loaded dataset. A reload builds a new Snapshot
// and swaps it in whole; the last completed load wins.
type Snapshot struct {
	id          string
	sourceID    string
	columns     []string
	rows        []*record.Record
	manuscripts []*manuscript.Manuscript
	byKey       map[string]*manuscript.Manuscript
	ranges      map[string][]span.Range
	loadedAt    time.Time
}

// ID returns the load id assigned to this snapshot.
func (sn *Snapshot) ID() string { return sn.id }

// SourceID returns the ingested source id.
func (sn *Snapshot) SourceID() string { return sn.sourceID }

// Columns returns the source's raw column order.
func (sn *Snapshot) Columns() []string { return sn.columns }

// Rows returns all rows in source order.
func (sn *Snapshot) Rows() []*record.Record { return sn.rows }

// Manuscripts returns the grouped manuscripts in first-seen order.
func (sn *Snapshot) Manuscripts() []*manuscript.Manuscript { return sn.manuscripts }

// LoadedAt returns the load completion time.
func (sn *Snapshot) LoadedAt() time.Time { return sn.loadedAt }

// QueryRequest is one filter/count request. State may be nil (no filters).
type QueryRequest struct {
	Mode   Mode
	State  *facet.State
	Query  string
	Offset int
	Limit  int
}

// QueryResult carries the filtered page plus the per-facet exclusion counts
// computed under the same selection state.
type QueryResult struct {
	LoadID      string
	Mode        Mode
	Total       int
	Offset      int
	Rows        []*record.Record
	Manuscripts []*manuscript.Manuscript
	Counts      map[string]facet.FieldCounts
}

// Service wires ingestion, grouping, enrichment, and the two core engines
// around one current snapshot.
type Service struct {
	reader DatasetReader
	engine *facetuc.Engine
	merge  *mergeuc.Service
	logger *zap.Logger

	defaultPageSize int
	maxPageSize     int

	mu   sync.RWMutex
	snap *Snapshot
}

// New creates a catalog service.
func New(reader DatasetReader, engine *facetuc.Engine, merge *mergeuc.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reader:          reader,
		engine:          engine,
		merge:           merge,
		logger:          logger,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultSize, maxSize int) *Service {
	if defaultSize > 0 {
		s.defaultPageSize = defaultSize
	}
	if maxSize > 0 {
		s.maxPageSize = maxSize
	}
	return s
}

// Load ingests a source, groups and enriches its rows, and swaps the current
// snapshot. Selection state is client-owned and implicitly reset: selections
// only make sense against the snapshot they were built from, identified by
// the returned load id.
func (s *Service) Load(ctx context.Context, sourceID string) (*Snapshot, error) {
	start := time.Now()

	ds, err := s.reader.Read(ctx, sourceID)
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read dataset %q: %w", sourceID, err)
	}

	enrichDating(ds.Rows)
	mss := manuscript.Group(ds.Rows)
	enrichUnitCounts(mss)

	byKey := make(map[string]*manuscript.Manuscript, len(mss))
	for _, m := range mss {
		if m.Key().IsZero() {
			continue
		}
		byKey[m.Key().String()] = m
	}

	ranges := make(map[string][]span.Range)
	if ds.HasMerge {
		ranges[ds.SourceID] = ds.Ranges
	}

	snap := &Snapshot{
		id:          uuid.NewString(),
		sourceID:    ds.SourceID,
		columns:     ds.Columns,
		rows:        ds.Rows,
		manuscripts: mss,
		byKey:       byKey,
		ranges:      ranges,
		loadedAt:    time.Now(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	metrics.DatasetLoadsTotal.WithLabelValues("ok").Inc()
	metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	metrics.DatasetRows.Set(float64(len(ds.Rows)))
	metrics.DatasetManuscripts.Set(float64(len(mss)))

	s.logger.Info("dataset loaded",
		zap.String("load_id", snap.id),
		zap.String("source_id", ds.SourceID),
		zap.Int("rows", len(ds.Rows)),
		zap.Int("manuscripts", len(mss)),
		zap.Int("merge_ranges", len(ds.Ranges)),
		zap.Bool("merge_metadata", ds.HasMerge),
		zap.Duration("took", time.Since(start)),
	)
	return snap, nil
}

// Snapshot returns the current snapshot.
func (s *Service) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, domain.ErrDatasetNotLoaded
	}
	return s.snap, nil
}

// Check reports whether a snapshot is available (health contract).
func (s *Service) Check(ctx context.Context) error {
	_, err := s.Snapshot()
	return err
}

// Query filters the universe and computes exclusion counts under one
// consistent snapshot.
func (s *Service) Query(ctx context.Context, req QueryRequest) (QueryResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return QueryResult{}, err
	}

	start := time.Now()
	limit := s.clampLimit(req.Limit)
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	res := QueryResult{
		LoadID: snap.id,
		Mode:   req.Mode,
		Offset: offset,
	}

	switch req.Mode {
	case ManuscriptMode:
		matched := s.engine.FilterManuscripts(snap.manuscripts, req.State, req.Query)
		res.Total = len(matched)
		res.Manuscripts = pageOf(matched, offset, limit)
		res.Counts = s.engine.CountManuscripts(snap.manuscripts, req.State, req.Query)
	case RowMode, "":
		matched := s.engine.FilterRows(snap.rows, req.State, req.Query)
		res.Total = len(matched)
		res.Rows = pageOf(matched, offset, limit)
		res.Counts = s.engine.CountRows(snap.rows, req.State, req.Query)
	default:
		return QueryResult{}, fmt.Errorf("query mode %q: %w", req.Mode, domain.ErrUnknownMode)
	}

	metrics.FacetQueryDuration.Observe(time.Since(start).Seconds())
	return res, nil
}

// Manuscript looks one manuscript up by key. Zero keys are never resolvable.
func (s *Service) Manuscript(ctx context.Context, key record.Key) (*manuscript.Manuscript, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if key.IsZero() {
		return nil, domain.ErrNoKey
	}
	m, ok := snap.byKey[key.String()]
	if !ok {
		return nil, domain.ErrManuscriptNotFound
	}
	return m, nil
}

// SpanMap computes the rendering plan for one manuscript over the given
// visible columns (nil means all source columns). Missing merge metadata
// falls back to the constant-value heuristic; heuristic reports which path
// was taken.
func (s *Service) SpanMap(
	ctx context.Context, key record.Key, visibleColumns []string,
) (m *span.Map, heuristic bool, err error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, false, err
	}
	ms, err := s.Manuscript(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if visibleColumns == nil {
		visibleColumns = snap.columns
	}

	m, err = s.merge.BuildSpanMap(ms.Rows(), snap.sourceID, snap.columns, visibleColumns, snap.ranges)
	if err == nil {
		metrics.SpanBuildsTotal.WithLabelValues("merge").Inc()
		return m, false, nil
	}
	// The engine degrades, never aborts: no metadata means heuristic spans.
	metrics.SpanBuildsTotal.WithLabelValues("heuristic").Inc()
	return s.merge.HeuristicSpanMap(ms.Rows(), visibleColumns), true, nil
}

// Facets returns the field catalog plus the options discovered in the
// current snapshot, sorted for stable presentation.
func (s *Service) Facets(ctx context.Context) ([]facet.Field, map[string][]string, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, nil, err
	}
	fields := s.engine.Fields()
	counts := s.engine.CountRows(snap.rows, facet.NewState(), "")
	options := make(map[string][]string, len(fields))
	for name, fc := range counts {
		opts := make([]string, 0, len(fc.Counts))
		for opt := range fc.Counts {
			opts = append(opts, opt)
		}
		sort.Strings(opts)
		options[name] = opts
	}
	return fields, options, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultPageSize
	}
	if limit > s.maxPageSize {
		return s.maxPageSize
	}
	return limit
}

func pageOf[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// enrichDating parses the dating cell once per row (post-load enrichment).
func enrichDating(rows []*record.Record) {
	for _, r := range rows {
		if year, ok := parse.DatingYear(r.Dating); ok {
			r.SetDatingYear(year)
		}
	}
}

// enrichUnitCounts derives the manuscript-level production-unit count facet:
// the number of distinct units across the whole manuscript, overridden by
// "Unknown" when any row carries the literal marker.
func enrichUnitCounts(mss []*manuscript.Manuscript) {
	for _, m := range mss {
		units := make(map[string]struct{})
		unknown := false
		for _, r := range m.Rows() {
			if parse.HasUnknownUnit(r.ProductionUnit) {
				unknown = true
			}
			for _, u := range parse.ProductionUnits(r.ProductionUnit) {
				units[parse.Fold(u)] = struct{}{}
			}
		}
		var v string
		switch {
		case unknown:
			v = parse.UnknownUnit
		case len(units) > 0:
			v = strconv.Itoa(len(units))
		}
		if v == "" {
			continue
		}
		for _, r := range m.Rows() {
			r.SetUnitCount(v)
		}
	}
}
