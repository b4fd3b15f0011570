package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/findmyfood/internal/domain"
	"github.com/kailas-cloud/findmyfood/internal/logger"
	"github.com/kailas-cloud/findmyfood/internal/transport/alternate"
	dashboarduc "github.com/kailas-cloud/findmyfood/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/findmyfood/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/findmyfood/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/findmyfood/internal/usecase/search"
	usageuc "github.com/kailas-cloud/findmyfood/internal/usecase/usage"
	"github.com/kailas-cloud/findmyfood/internal/version"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// errorRule maps a domain sentinel to an HTTP response.
type errorRule struct {
	sentinel  error
	status    int
	code      ErrorCode
	retryable bool
	detailed  bool // message is err.Error(); only for errors built from caller input
}

// Server serves the findmyfood HTTP API.
type Server struct {
	recommend  *recommenduc.Service
	search     *searchuc.Service
	dashboard  *dashboarduc.Service
	usage      *usageuc.Service
	health     *healthuc.Service
	logger     *zap.Logger
	errorRules []errorRule
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend *recommenduc.Service,
	search *searchuc.Service,
	dashboard *dashboarduc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		recommend: recommend,
		search:    search,
		dashboard: dashboard,
		usage:     usage,
		health:    health,
		logger:    logger,
		errorRules: []errorRule{
			{domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound, false, true},
			{domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed, false, true},
			{domain.ErrContentQuotaExceeded, http.StatusTooManyRequests, ErrorCodeContentQuotaExceeded, false, false},
			{domain.ErrContentUnavailable, http.StatusServiceUnavailable, ErrorCodeContentUnavailable, true, false},
			{domain.ErrAlternateUnavailable, http.StatusServiceUnavailable, ErrorCodeContentUnavailable, true, false},
		},
	}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.Search)
	r.Get("/users", s.ListUsers)
	r.Route("/users/{id}", func(r chi.Router) {
		r.Get("/recommendations", s.Recommendations)
		r.Get("/neighbors", s.Neighbors)
		r.Get("/dashboard", s.Dashboard)
	})
	r.Get("/usage", s.Usage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Restaurant) == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "Restaurant name is required")
		return
	}

	res, err := s.search.Search(r.Context(), req.toQuery())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	setContentHeaders(w, res.Usage)
	writeJSON(w, http.StatusOK, searchResultToResponse(res))
}

// ListUsers handles GET /users.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.recommend.Users(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usersToResponse(users))
}

// Recommendations handles GET /users/{id}/recommendations.
func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	dishes, err := s.recommend.Recommend(r.Context(), userID, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RecommendationsResponse{UserID: userID, Items: alternate.FromDomain(dishes)})
}

// Neighbors handles GET /users/{id}/neighbors.
func (s *Server) Neighbors(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	ns, err := s.recommend.Neighbors(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, neighborsToResponse(userID, ns))
}

// Dashboard handles GET /users/{id}/dashboard.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		s.dashboard.Invalidate(userID)
	}

	d, err := s.dashboard.Load(r.Context(), userID, r.URL.Query().Get("location"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.dashboardToResponse(d))
}

// Usage handles GET /usage.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period, err := usageuc.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "period must be day or month")
		return
	}
	writeJSON(w, http.StatusOK, usageToResponse(s.usage.GetReport(r.Context(), period)))
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
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("user id must be a positive integer, got %q", raw))
		return 0, false
	}
	return id, true
}

// intQuery parses an optional integer query parameter. Absent means 0.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return n, nil
}

func setContentHeaders(w http.ResponseWriter, usage domain.TokenUsage) {
	if usage.TotalTokens > 0 {
		w.Header().Set("X-Content-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// classify maps err to a status and a client-safe body without exposing internals.
func (s *Server) classify(err error) (int, ErrorResponse) {
	for _, rule := range s.errorRules {
		if errors.Is(err, rule.sentinel) {
			msg := rule.sentinel.Error()
			if rule.detailed {
				msg = err.Error()
			}
			return rule.status, ErrorResponse{
				Code:      rule.code,
				Message:   msg,
				Retryable: rule.retryable,
			}
		}
	}
	return http.StatusInternalServerError, ErrorResponse{Code: ErrorCodeInternalError, Message: "internal error"}
}

func (s *Server) errorBody(err error) ErrorResponse {
	_, body := s.classify(err)
	return body
}

// handleDomainError logs through the request-scoped logger so the entry carries the request id.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), s.logger)
	status, body := s.classify(err)
	if status == http.StatusInternalServerError {
		log.Error("internal error", zap.Error(err))
	} else {
		log.Warn("domain error", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, body)
}
