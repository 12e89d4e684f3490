package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by services and controllers. Services wrap these with
// fmt.Errorf("...: %w", ...) so controllers can map them with errors.Is.
var (
	// ErrNotFound covers unknown users, sessions and results.
	ErrNotFound = errors.New("not found")

	// ErrInvalidSession is returned when a submission targets a session that is
	// not in progress anymore (already submitted or expired past grace).
	ErrInvalidSession = errors.New("invalid session")

	// ErrPreconditionFailed signals that the proctoring environment (focus mode)
	// could not be established. Recoverable by re-prompting the user.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrConflict is returned when a session start is rejected because the user
	// already has one in progress.
	ErrConflict = errors.New("conflict")
)

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidSession):
		return http.StatusBadRequest
	case errors.Is(err, ErrPreconditionFailed):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
