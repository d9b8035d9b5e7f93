package api

import (
	"errors"
	"net/http"

	"github.com/okian/medalist/internal/adapters/mq/queue"
	"github.com/okian/medalist/internal/adapters/repository"
	service "github.com/okian/medalist/internal/app"
	"github.com/okian/medalist/internal/domain/eligibility"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrIDMismatch = errors.New("profile id does not match path")
)

// Error codes carried in error responses.
const (
	codeBadRequest    = "bad_request"
	codeNotFound      = "not_found"
	codeNotAchievable = "not_achievable"
	codeUnavailable   = "unavailable"
	codeInternal      = "internal"
)

// classify returns the HTTP status and error code for err.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, eligibility.ErrAwardNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, service.ErrNotAchievable):
		return http.StatusConflict, codeNotAchievable
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrIDMismatch),
		errors.Is(err, repository.ErrInvalidRecord),
		errors.Is(err, repository.ErrEmptyID):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, queue.ErrFull), errors.Is(err, queue.ErrClosed), errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, codeUnavailable
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
