// Package api exposes award evaluation over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/okian/medalist/internal/adapters/mq/worker"
	service "github.com/okian/medalist/internal/app"
	"github.com/okian/medalist/internal/domain/eligibility"
	"github.com/okian/medalist/internal/domain/model"
	"github.com/okian/medalist/pkg/logger"
)

const (
	maxBodyBytes   = 1 << 20
	requestTimeout = 30 * time.Second
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	PutProfile(ctx context.Context, p model.Profile) error
	GetProfile(ctx context.Context, id string) (model.Profile, error)
	AppendActivity(ctx context.Context, profileID string, rec model.ActivityRecord) (model.ActivityRecord, error)

	EvaluateAward(ctx context.Context, profileID, awardID string, endYear *int) (eligibility.Result, error)
	EvaluateAll(ctx context.Context, profileID string) (eligibility.Summary, error)
	EligibleYears(ctx context.Context, profileID, awardID string) ([]int, error)
	UnlockAward(ctx context.Context, profileID, awardID string) (eligibility.Result, error)
	EvaluateProfiles(ctx context.Context, profileIDs []string) ([]worker.Outcome, error)
}

// StatsProvider reports service statistics.
type StatsProvider interface {
	GetStats(ctx context.Context) service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps     Dependencies
	stats    StatsProvider
	validate *validator.Validate
	logger   logger.Logger
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, stats StatsProvider) *Server {
	return &Server{
		deps:     deps,
		stats:    stats,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.Named("api"),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metricsHandler())
	r.Get("/stats", s.handleStats)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Route("/profiles/{profileID}", func(r chi.Router) {
			r.Put("/", s.handlePutProfile)
			r.Get("/", s.handleGetProfile)
			r.Post("/activities", s.handleAppendActivity)
			r.Get("/awards", s.handleEvaluateAll)
			r.Route("/awards/{awardID}", func(r chi.Router) {
				r.Get("/", s.handleEvaluateAward)
				r.Get("/years", s.handleEligibleYears)
				r.Post("/unlock", s.handleUnlock)
			})
		})
		r.Post("/evaluations", s.handleEvaluations)
	})
}

// Handler returns a router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail maps err onto a response and logs server-side failures.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestID", middleware.GetReqID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func queryYear(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil || y <= 0 {
		return nil, fmt.Errorf("%w: %s must be a positive year", ErrBadRequest, name)
	}
	return &y, nil
}
