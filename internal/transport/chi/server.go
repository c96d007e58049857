// Package chi exposes the catalog over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/PatrikGranholm/nordiclaw/internal/domain"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/facet"
	"github.com/PatrikGranholm/nordiclaw/internal/domain/record"
	logpkg "github.com/PatrikGranholm/nordiclaw/internal/logger"
	cataloguc "github.com/PatrikGranholm/nordiclaw/internal/usecase/catalog"
	healthuc "github.com/PatrikGranholm/nordiclaw/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the catalog API.
type Server struct {
	catalog       *cataloguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(catalog *cataloguc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		catalog: catalog,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDatasetNotLoaded, http.StatusServiceUnavailable, codeNotLoaded),
		sentinelHandler(domain.ErrManuscriptNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrNoKey, http.StatusNotFound, codeNoKey),
		sentinelHandler(domain.ErrUnknownFacet, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnknownMode, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Mount registers the API routes.
func (s *Server) Mount(r chi.Router) {
	r.Get("/healthz", s.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/records", s.ListRecords)
	r.Get("/manuscripts", s.ListManuscripts)
	r.Get("/manuscripts/{key}", s.GetManuscript)
	r.Get("/manuscripts/{key}/spans", s.GetSpanMap)
	r.Get("/facets", s.ListFacets)
	r.Post("/query", s.Query)
	r.Post("/reload", s.Reload)
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// ListRecords handles GET /records: an unfiltered row page.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	res, err := s.catalog.Query(r.Context(), cataloguc.QueryRequest{
		Mode:   cataloguc.RowMode,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queryToResponse(res))
}

// ListManuscripts handles GET /manuscripts: an unfiltered manuscript page.
func (s *Server) ListManuscripts(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	res, err := s.catalog.Query(r.Context(), cataloguc.QueryRequest{
		Mode:   cataloguc.ManuscriptMode,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queryToResponse(res))
}

// GetManuscript handles GET /manuscripts/{key}.
func (s *Server) GetManuscript(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}
	m, err := s.catalog.Manuscript(r.Context(), key)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, manuscriptToDTO(m))
}

// GetSpanMap handles GET /manuscripts/{key}/spans. The optional "columns"
// query parameter is a comma-separated visible-column list; absent means all
// source columns are visible.
func (s *Server) GetSpanMap(w http.ResponseWriter, r *http.Request) {
	key, ok := keyParam(w, r)
	if !ok {
		return
	}

	var visible []string
	if raw := r.URL.Query().Get("columns"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				visible = append(visible, c)
			}
		}
	}

	m, heuristic, err := s.catalog.SpanMap(r.Context(), key, visible)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spanMapToDTO(m, heuristic))
}

// ListFacets handles GET /facets.
func (s *Server) ListFacets(w http.ResponseWriter, r *http.Request) {
	fields, options, err := s.catalog.Facets(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	out := make([]facetFieldDTO, 0, len(fields))
	for _, f := range fields {
		out = append(out, facetFieldDTO{
			Name:    f.Name(),
			Kind:    string(f.Kind()),
			Column:  f.Column(),
			Options: options[f.Name()],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": out})
}

// Query handles POST /query: facet selections plus free text in, filtered
// page plus live exclusion counts out.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	state := facet.NewState()
	for field, sel := range req.Selections {
		state.Set(sel.toSelection(field))
	}

	res, err := s.catalog.Query(r.Context(), cataloguc.QueryRequest{
		Mode:   cataloguc.Mode(req.Mode),
		State:  state,
		Query:  req.Query,
		Offset: req.Offset,
		Limit:  req.Limit,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, queryToResponse(res))
}

// Reload handles POST /reload: re-ingests the configured source and swaps
// the snapshot.
func (s *Server) Reload(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Snapshot()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	fresh, err := s.catalog.Load(r.Context(), snap.SourceID())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	logpkg.FromContext(r.Context()).Info("dataset reloaded",
		zap.String("load_id", fresh.ID()),
		zap.Int("rows", len(fresh.Rows())),
		zap.Int("manuscripts", len(fresh.Manuscripts())))
	writeJSON(w, http.StatusOK, map[string]any{
		"loadId":      fresh.ID(),
		"rows":        len(fresh.Rows()),
		"manuscripts": len(fresh.Manuscripts()),
	})
}

func queryToResponse(res cataloguc.QueryResult) queryResponse {
	out := queryResponse{
		LoadID: res.LoadID,
		Mode:   string(res.Mode),
		Total:  res.Total,
		Offset: res.Offset,
		Counts: countsToDTO(res.Counts),
	}
	for _, r := range res.Rows {
		out.Records = append(out.Records, recordToDTO(r))
	}
	for _, m := range res.Manuscripts {
		out.Manuscripts = append(out.Manuscripts, manuscriptToDTO(m))
	}
	return out
}

// keyParam extracts and parses the {key} path parameter.
func keyParam(w http.ResponseWriter, r *http.Request) (record.Key, bool) {
	raw := chi.URLParam(r, "key")
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid manuscript key encoding")
		return record.Key{}, false
	}
	return record.ParseKey(unescaped), true
}

func pageParams(r *http.Request) (offset, limit int) {
	q := r.URL.Query()
	offset, _ = strconv.Atoi(q.Get("offset"))
	limit, _ = strconv.Atoi(q.Get("limit"))
	return offset, limit
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

// sentinelHandler maps one sentinel error to a status and code.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
