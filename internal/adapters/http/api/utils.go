package api

import (
	"errors"
	"net/http"

	service "github.com/okian/draftreveal/internal/app"
	"github.com/okian/draftreveal/internal/domain/reveal"
	"github.com/okian/draftreveal/internal/domain/roster"
)

// RequestIDHeader carries the idempotency key of an input request.
const RequestIDHeader = "X-Request-ID"

// statusFor translates service errors into an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, service.ErrNoSession):
		return http.StatusNotFound, "no_session"
	case errors.Is(err, service.ErrUnknownAction):
		return http.StatusBadRequest, "unknown_action"
	case errors.Is(err, reveal.ErrNotComplete):
		return http.StatusConflict, "not_complete"
	case errors.Is(err, roster.ErrEmptyRoster),
		errors.Is(err, roster.ErrBlankName),
		errors.Is(err, roster.ErrDuplicateID),
		errors.Is(err, roster.ErrUnsupportedLeagueSize),
		errors.Is(err, reveal.ErrEmptyRoster),
		errors.Is(err, reveal.ErrDuplicateParticipant):
		return http.StatusBadRequest, "invalid_roster"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, Wrap(op, err))
}
