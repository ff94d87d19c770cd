// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/resicentral/resicentral/internal/app"
	"github.com/resicentral/resicentral/internal/domain/calculator"
	"github.com/resicentral/resicentral/internal/domain/model"
	"github.com/resicentral/resicentral/internal/domain/types"
	"github.com/resicentral/resicentral/pkg/logger"
)

// Request headers read by the API.
const (
	// HeaderUserID carries the caller identity set by the upstream gateway.
	HeaderUserID = "X-User-ID"
	// HeaderIdempotencyKey lets a client retry an evaluation without
	// recording it twice.
	HeaderIdempotencyKey = "Idempotency-Key"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	ListCalculators(f calculator.Filter) []types.Summary
	Calculator(key string) (types.Detail, error)
	Categories() []string
	Evaluate(ctx context.Context, req service.EvaluateRequest) (types.Evaluation, error)
	History(ctx context.Context, userID string, limit int) ([]model.Calculation, error)
	MaxHistoryLimit() int
}

// Server wires HTTP routes for the calculator API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	calculatorsHandler *CalculatorsHandler
	historyHandler     *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		calculatorsHandler: NewCalculatorsHandler(deps),
		historyHandler:     NewHistoryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /calculators", MetricsMiddleware(s.calculatorsHandler.HandleList, "calculators"))
	mux.HandleFunc("GET /calculators/{key}", MetricsMiddleware(s.calculatorsHandler.HandleGet, "calculator"))
	mux.HandleFunc("POST /calculators/{key}/evaluate", MetricsMiddleware(s.calculatorsHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("GET /categories", MetricsMiddleware(s.calculatorsHandler.HandleCategories, "categories"))
	mux.HandleFunc("GET /history", MetricsMiddleware(s.historyHandler.HandleList, "history"))
}

type errorResponse struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Fields  []types.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err as {code, message}. Validation failures also
// carry the per-field list. Server errors are logged and their detail is
// not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := classify(err)
	resp := errorResponse{Code: kind.Code, Message: err.Error()}

	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		resp.Message = "input validation failed"
		resp.Fields = types.FieldErrors(verr)
	}
	if kind.Status >= http.StatusInternalServerError {
		logger.Get().Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("code", kind.Code),
			logger.Error(err),
		)
		if kind != KindHistoryUnavailable {
			resp.Message = http.StatusText(kind.Status)
		}
	}
	writeJSON(w, kind.Status, resp)
}
