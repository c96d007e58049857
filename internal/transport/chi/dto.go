package chi

import (
	"sort"

	"github.com/PatrikGranholm/nordiclaw/internal/domain/facet"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/manuscript"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/span"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeNoKey            = "no_key"
	codeNotLoaded        = "dataset_not_loaded"
	codeInternal         = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// recordDTO is the wire form of one row record.
type recordDTO struct {
	Key       string            `json:"key"`
	Display   string            `json:"display"`
	SourceRow int               `json:"sourceRow"`
	Values    map[string]string `json:"values"`
}

func recordToDTO(r *record.Record) recordDTO {
	values := make(map[string]string)
	r.EachValue(func(column, value string) bool {
		values[column] = value
		return true
	})
	k := r.Key()
	return recordDTO{
		Key:       k.String(),
		Display:   k.Display(),
		SourceRow: r.SourceRow,
		Values:    values,
	}
}

// manuscriptDTO is the wire form of one grouped manuscript.
type manuscriptDTO struct {
	Key     string      `json:"key"`
	Display string      `json:"display"`
	Rows    []recordDTO `json:"rows"`
}

func manuscriptToDTO(m *manuscript.Manuscript) manuscriptDTO {
	rows := make([]recordDTO, 0, m.Len())
	for _, r := range m.Rows() {
		rows = append(rows, recordToDTO(r))
	}
	return manuscriptDTO{
		Key:     m.Key().String(),
		Display: m.Key().Display(),
		Rows:    rows,
	}
}

// pairDTO is one hierarchical (group, variant) selection.
type pairDTO struct {
	Group   string `json:"group"`
	Variant string `json:"variant"`
}

// selectionDTO is one facet selection. Which fields apply depends on the
// facet kind; unused fields stay empty.
type selectionDTO struct {
	Values   []string  `json:"values,omitempty"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Groups   []string  `json:"groups,omitempty"`
	Variants []pairDTO `json:"variants,omitempty"`
}

// toSelection converts a wire selection for one field.
func (d selectionDTO) toSelection(field string) facet.Selection {
	if len(d.Groups) > 0 || len(d.Variants) > 0 {
		pairs := make([]facet.Pair, 0, len(d.Variants))
		for _, p := range d.Variants {
			pairs = append(pairs, facet.Pair{Group: p.Group, Variant: p.Variant})
		}
		return facet.SelectHierarchy(field, d.Groups, pairs)
	}
	if d.Min != nil || d.Max != nil {
		return facet.SelectRangeAndValues(field, facet.NewRange(d.Min, d.Max), d.Values...)
	}
	return facet.SelectValues(field, d.Values...)
}

// queryRequest is the POST /query body.
type queryRequest struct {
	Mode       string                  `json:"mode"`
	Query      string                  `json:"query"`
	Selections map[string]selectionDTO `json:"selections"`
	Offset     int                     `json:"offset"`
	Limit      int                     `json:"limit"`
}

// fieldCountsDTO mirrors facet.FieldCounts.
type fieldCountsDTO struct {
	BaseTotal int            `json:"baseTotal"`
	Counts    map[string]int `json:"counts"`
}

// queryResponse is the POST /query result.
type queryResponse struct {
	LoadID      string                    `json:"loadId"`
	Mode        string                    `json:"mode"`
	Total       int                       `json:"total"`
	Offset      int                       `json:"offset"`
	Records     []recordDTO               `json:"records,omitempty"`
	Manuscripts []manuscriptDTO           `json:"manuscripts,omitempty"`
	Counts      map[string]fieldCountsDTO `json:"counts"`
}

func countsToDTO(counts map[string]facet.FieldCounts) map[string]fieldCountsDTO {
	out := make(map[string]fieldCountsDTO, len(counts))
	for name, fc := range counts {
		out[name] = fieldCountsDTO{BaseTotal: fc.BaseTotal, Counts: fc.Counts}
	}
	return out
}

// facetFieldDTO describes one facet field and its discovered options.
type facetFieldDTO struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Column  string   `json:"column,omitempty"`
	Options []string `json:"options"`
}

// spanCellDTO is one origin cell with its extent.
type spanCellDTO struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	RowSpan int `json:"rowSpan"`
	ColSpan int `json:"colSpan"`
}

type coveredCellDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type spanFlagDTO struct {
	Reason      string `json:"reason"`
	MinRow      int    `json:"minRow"`
	MaxRow      int    `json:"maxRow"`
	FirstColumn string `json:"firstColumn"`
	LastColumn  string `json:"lastColumn"`
}

// spanMapResponse is the GET /manuscripts/{key}/spans result.
type spanMapResponse struct {
	Columns   []string         `json:"columns"`
	Origins   []spanCellDTO    `json:"origins"`
	Covered   []coveredCellDTO `json:"covered"`
	Flags     []spanFlagDTO    `json:"flags,omitempty"`
	Heuristic bool             `json:"heuristic"`
}

func spanMapToDTO(m *span.Map, heuristic bool) spanMapResponse {
	resp := spanMapResponse{Columns: m.Columns(), Heuristic: heuristic}
	for c, e := range m.Origins() {
		resp.Origins = append(resp.Origins, spanCellDTO{
			Row: c.Row, Col: c.Col, RowSpan: e.RowSpan, ColSpan: e.ColSpan,
		})
	}
	for c := range m.CoveredCells() {
		resp.Covered = append(resp.Covered, coveredCellDTO{Row: c.Row, Col: c.Col})
	}
	sort.Slice(resp.Origins, func(i, j int) bool {
		if resp.Origins[i].Row != resp.Origins[j].Row {
			return resp.Origins[i].Row < resp.Origins[j].Row
		}
		return resp.Origins[i].Col < resp.Origins[j].Col
	})
	sort.Slice(resp.Covered, func(i, j int) bool {
		if resp.Covered[i].Row != resp.Covered[j].Row {
			return resp.Covered[i].Row < resp.Covered[j].Row
		}
		return resp.Covered[i].Col < resp.Covered[j].Col
	})
	for _, f := range m.Flags() {
		resp.Flags = append(resp.Flags, spanFlagDTO{
			Reason:      string(f.Reason),
			MinRow:      f.Range.MinRow,
			MaxRow:      f.Range.MaxRow,
			FirstColumn: f.Range.FirstColumn,
			LastColumn:  f.Range.LastColumn,
		})
	}
	return resp
}
