package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/browsekit/internal/domain"
	domentity "github.com/kailas-cloud/browsekit/internal/domain/entity"
	batchuc "github.com/kailas-cloud/browsekit/internal/usecase/batch"
	"github.com/kailas-cloud/browsekit/internal/usecase/browse"
	cataloguc "github.com/kailas-cloud/browsekit/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/browsekit/internal/usecase/health"
	reorderuc "github.com/kailas-cloud/browsekit/internal/usecase/reorder"
	"github.com/kailas-cloud/browsekit/internal/version"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the catalog, session and reorder API.
type Server struct {
	catalog       *cataloguc.Service
	batch         *batchuc.Service
	orders        *reorderuc.Service
	sessions      *browse.Registry[domentity.Entity]
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	batch *batchuc.Service,
	orders *reorderuc.Service,
	sessions *browse.Registry[domentity.Entity],
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		catalog:  catalog,
		batch:    batch,
		orders:   orders,
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, ErrorCodeSessionNotFound),
		sentinelHandler(domain.ErrEventNotFound, http.StatusNotFound, ErrorCodeEventNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrWrongMode, http.StatusConflict, ErrorCodeWrongMode),
		sentinelHandler(domain.ErrTooManySessions, http.StatusTooManyRequests, ErrorCodeTooManySessions),
	}
	return s
}

// Mount registers all routes on r.
func (s *Server) Mount(r gochi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/entities/{kind}", func(r gochi.Router) {
		r.Get("/", s.ListEntities)
		r.Post("/batch", s.BatchUpsert)
		r.Delete("/batch", s.BatchDelete)
		r.Put("/{id}", s.PutEntity)
		r.Get("/{id}", s.GetEntity)
		r.Delete("/{id}", s.DeleteEntity)
	})
	r.Put("/events/{id}", s.PutEvent)
	r.Get("/events/{id}", s.GetEvent)

	r.Post("/sessions", s.CreateSession)
	r.Route("/sessions/{id}", func(r gochi.Router) {
		r.Get("/", s.GetSession)
		r.Delete("/", s.DeleteSession)
		r.Put("/text", s.SetSessionText)
		r.Put("/facets/{name}", s.SetSessionFacet)
		r.Put("/sort", s.SetSessionSort)
		r.Post("/more", s.RevealMore)
		r.Put("/page", s.SetSessionPage)
		r.Post("/selection/{rid}", s.ToggleSelection)
		r.Delete("/selection/{rid}", s.Deselect)
		r.Delete("/selection", s.ClearSelection)
		r.Post("/reset", s.ResetSession)
	})

	r.Get("/orders/{partition}", s.GetOrder)
	r.Put("/orders/{partition}", s.CommitOrder)
	r.Post("/orders/{partition}/move", s.MoveOrder)
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

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
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

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrEventNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrWrongMode,
		domain.ErrTooManySessions,
		domain.ErrInvalidRequest,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler reports invalid input together with its detail.
func validationHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	msg := err.Error()
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		msg = fe.Error()
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, msg)
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
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
