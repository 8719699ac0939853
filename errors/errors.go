package errors

import (
	goerrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation       = fmt.Errorf("validation failed")
	ErrNotFound         = fmt.Errorf("not found")
	ErrConflict         = fmt.Errorf("already exists")
	ErrForbidden        = fmt.Errorf("forbidden")
	ErrUnauthorized     = fmt.Errorf("unauthorized")
	ErrInvalidOTP       = fmt.Errorf("otp expired or invalid")
	ErrTokenGeneration  = fmt.Errorf("token generation failed")
	ErrBackpressure     = fmt.Errorf("connection buffer full")
	ErrConnectionClosed = fmt.Errorf("connection closed")
	ErrEngineStopped    = fmt.Errorf("engine stopped")
	ErrWorkerPanic      = fmt.Errorf("worker panic")
)

// HTTPStatus maps an error chain to the status code returned by the REST surface.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case goerrors.Is(err, ErrValidation), goerrors.Is(err, ErrInvalidOTP):
		return http.StatusBadRequest
	case goerrors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case goerrors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case goerrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case goerrors.Is(err, ErrConflict):
		return http.StatusConflict
	case goerrors.Is(err, ErrEngineStopped), goerrors.Is(err, ErrBackpressure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Kind is the short classification sent with realtime error events.
func Kind(err error) string {
	switch {
	case goerrors.Is(err, ErrValidation), goerrors.Is(err, ErrInvalidOTP):
		return "validation"
	case goerrors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case goerrors.Is(err, ErrForbidden):
		return "forbidden"
	case goerrors.Is(err, ErrNotFound):
		return "not_found"
	case goerrors.Is(err, ErrConflict):
		return "conflict"
	case goerrors.Is(err, ErrEngineStopped), goerrors.Is(err, ErrBackpressure):
		return "unavailable"
	default:
		return "internal"
	}
}

// Public returns the message safe to expose to clients.
// Unclassified failures are reported generically.
func Public(err error) string {
	if Kind(err) == "internal" {
		return "internal error"
	}
	return err.Error()
}
