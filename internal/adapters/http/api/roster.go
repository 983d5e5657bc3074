package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/draftreveal/internal/domain/model"
)

// RosterDependencies defines the interface for roster lookups.
type RosterDependencies interface {
	DefaultRoster(ctx context.Context, size int) ([]model.Participant, error)
}

// RosterHandler serves the pre-filled league roster.
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

type rosterResponse struct {
	LeagueSize   int                 `json:"league_size"`
	Participants []model.Participant `json:"participants"`
}

// HandleDefault handles GET /roster/default?size=N requests.
func (h *RosterHandler) HandleDefault(w http.ResponseWriter, r *http.Request) {
	const op = "api.default_roster"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	size := 0
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		size = n
	}
	participants, err := h.deps.DefaultRoster(r.Context(), size)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterResponse{LeagueSize: len(participants), Participants: participants})
}
