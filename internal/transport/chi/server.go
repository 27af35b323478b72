package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/concsearch/internal/domain"
	"github.com/kailas-cloud/concsearch/internal/domain/query"
	"github.com/kailas-cloud/concsearch/internal/domain/search/request"
	domset "github.com/kailas-cloud/concsearch/internal/domain/settings"
	"github.com/kailas-cloud/concsearch/internal/logger"
	healthuc "github.com/kailas-cloud/concsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/concsearch/internal/usecase/search"
)

const maxBodyBytes = 1 << 20

// SettingsStore reads and writes per-index settings.
type SettingsStore interface {
	Get(ctx context.Context, name string) (domset.Index, error)
	Put(ctx context.Context, idx domset.Index) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]domset.Index, error)
}

// Server serves the planning and settings HTTP API.
type Server struct {
	search        *searchuc.Service
	settings      SettingsStore
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	settings SettingsStore,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		settings: settings,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, CodeIndexNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeIndexNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Get("/indexes", s.ListSettings)
	r.Post("/_mplan", s.PlanMany)
	r.Route("/indexes/{index}", func(r gochi.Router) {
		r.Post("/_plan", s.Plan)
		r.Get("/_settings", s.GetSettings)
		r.Put("/_settings", s.PutSettings)
		r.Delete("/_settings", s.DeleteSettings)
	})
}

// Plan handles POST /indexes/{index}/_plan.
func (s *Server) Plan(w http.ResponseWriter, r *http.Request) {
	index := gochi.URLParam(r, "index")

	var req PlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sc, err := searchContext(index, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	plan, err := s.search.Plan(r.Context(), index, sc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, planToResponse(plan))
}

// PlanMany handles POST /_mplan.
func (s *Server) PlanMany(w http.ResponseWriter, r *http.Request) {
	var req MultiPlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	targets := make([]searchuc.Target, len(req.Requests))
	for i, item := range req.Requests {
		sc, err := searchContext(item.Index, item.PlanRequest)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, fmt.Sprintf("requests[%d]: %v", i, err))
			return
		}
		targets[i] = searchuc.Target{Index: item.Index, Context: sc}
	}

	plans, err := s.search.PlanMany(r.Context(), targets)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := MultiPlanResponse{Plans: make([]PlanResponse, len(plans))}
	for i, p := range plans {
		resp.Plans[i] = planToResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSettings handles GET /indexes/{index}/_settings.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	idx, err := s.settings.Get(r.Context(), gochi.URLParam(r, "index"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsToResponse(idx, s.search.Cluster()))
}

// PutSettings handles PUT /indexes/{index}/_settings.
func (s *Server) PutSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	idx, err := settingsFromRequest(gochi.URLParam(r, "index"), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}
	if err := s.settings.Put(r.Context(), idx); err != nil {
		s.handleDomainError(w, err)
		return
	}

	logger.FromContext(r.Context()).Info("index settings updated",
		zap.String("index", idx.Name()),
		zap.String("mode", string(idx.Mode())),
	)
	writeJSON(w, http.StatusOK, settingsToResponse(idx, s.search.Cluster()))
}

// DeleteSettings handles DELETE /indexes/{index}/_settings.
func (s *Server) DeleteSettings(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.Delete(r.Context(), gochi.URLParam(r, "index")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSettings handles GET /indexes.
func (s *Server) ListSettings(w http.ResponseWriter, r *http.Request) {
	list, err := s.settings.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SettingsResponse, len(list))
	for i, idx := range list {
		items[i] = settingsToResponse(idx, s.search.Cluster())
	}
	writeJSON(w, http.StatusOK, SettingsListResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func searchContext(index string, req PlanRequest) (*request.Context, error) {
	q, err := query.Parse(req.Query)
	if err != nil {
		return nil, err
	}
	aggs, err := request.ParseAggregations(req.Aggs)
	if err != nil {
		return nil, err
	}
	return request.New(index, q, aggs, req.TerminateAfter, req.Profile)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
