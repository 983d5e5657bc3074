package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/draftreveal/internal/domain/model"
	"github.com/okian/draftreveal/internal/domain/types"
	"github.com/okian/draftreveal/pkg/logger"
)

// SessionHandler serves session lifecycle and input routes.
type SessionHandler struct {
	deps Dependencies
	log  logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies, log logger.Logger) *SessionHandler {
	return &SessionHandler{deps: deps, log: log}
}

// sessionRequest is the body of POST /session. Without participants the
// default roster of LeagueSize members is used.
type sessionRequest struct {
	Participants []model.Participant `json:"participants"`
	LeagueSize   int                 `json:"league_size"`
}

type keyRequest struct {
	Key string `json:"key"`
}

// HandleSession handles GET and POST /session requests.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getSession(w, r)
	case http.MethodPost:
		h.postSession(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) getSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_session"
	frame, err := h.deps.Frame(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (h *SessionHandler) postSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_session"
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	participants := req.Participants
	if len(participants) == 0 {
		defaults, err := h.deps.DefaultRoster(r.Context(), req.LeagueSize)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		participants = defaults
	}
	frame, err := h.deps.GenerateSession(r.Context(), participants)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, frame)
}

// HandleAction handles POST /session/actions/{action} requests.
func (h *SessionHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_action"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	action := strings.TrimPrefix(r.URL.Path, "/session/actions/")
	if action == "" || strings.Contains(action, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	h.input(w, r, op, func(ctx context.Context) (types.Outcome, error) {
		return h.deps.Apply(ctx, action)
	})
}

// HandleKey handles POST /session/keys requests.
func (h *SessionHandler) HandleKey(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_key"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req keyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Key == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing key")))
		return
	}
	h.input(w, r, op, func(ctx context.Context) (types.Outcome, error) {
		return h.deps.HandleKey(ctx, req.Key)
	})
}

// input applies fn once per request id. A repeated id answers with the
// current frame and duplicate set.
func (h *SessionHandler) input(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context) (types.Outcome, error)) {
	ctx := r.Context()
	id := strings.TrimSpace(r.Header.Get(RequestIDHeader))

	if id != "" && h.deps.SeenAndRecord(ctx, id) {
		frame, err := h.deps.Frame(ctx)
		if err != nil {
			writeServiceError(w, op, err)
			return
		}
		h.log.Debug(ctx, "duplicate input dropped", logger.String("request_id", id))
		writeJSON(w, http.StatusOK, types.Outcome{Duplicate: true, Frame: frame})
		return
	}

	out, err := fn(ctx)
	if err != nil {
		if id != "" {
			h.deps.Unrecord(ctx, id)
		}
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleResults handles GET /session/results requests.
func (h *SessionHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_results"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	results, err := h.deps.FinalOrder(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
