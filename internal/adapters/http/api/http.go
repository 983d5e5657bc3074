// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/internal/domain/types"
	"github.com/okian/draftreveal/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Idempotency for input requests.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)

	DefaultRoster(ctx context.Context, size int) ([]model.Participant, error)
	GenerateSession(ctx context.Context, participants []model.Participant) (types.Frame, error)

	Apply(ctx context.Context, action string) (types.Outcome, error)
	HandleKey(ctx context.Context, key string) (types.Outcome, error)

	Frame(ctx context.Context) (types.Frame, error)
	FinalOrder(ctx context.Context) ([]types.Result, error)
	Subscribe(ctx context.Context) (<-chan types.Message, func())
}

// Server wires HTTP routes for the presentation API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	rosterHandler  *RosterHandler
	sessionHandler *SessionHandler
	streamHandler  *StreamHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{writeTimeout: defaultWriteTimeout, log: logger.GetOrNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		rosterHandler:  NewRosterHandler(deps),
		sessionHandler: NewSessionHandler(deps, cfg.log),
		streamHandler:  NewStreamHandler(deps, cfg),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/roster/default", MetricsMiddleware(s.rosterHandler.HandleDefault, "roster"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleSession, "session"))
	mux.HandleFunc("/session/actions/", MetricsMiddleware(s.sessionHandler.HandleAction, "actions"))
	mux.HandleFunc("/session/keys", MetricsMiddleware(s.sessionHandler.HandleKey, "keys"))
	mux.HandleFunc("/session/results", MetricsMiddleware(s.sessionHandler.HandleResults, "results"))
	mux.HandleFunc("/session/stream", MetricsMiddleware(s.streamHandler.HandleStream, "stream"))
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
