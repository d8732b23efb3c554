package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tmcnicol/playtrace/internal/model"
	"github.com/tmcnicol/playtrace/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeProjectNotFound     = "PROJECT_NOT_FOUND"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodePlayerExists        = "PLAYER_EXISTS"
	CodeNoActiveSession     = "NO_ACTIVE_SESSION"
	CodeSessionActive       = "SESSION_ACTIVE"
	CodeSessionExpired      = "SESSION_EXPIRED"
	CodeLeaderboardNotFound = "LEADERBOARD_NOT_FOUND"
	CodeCustomDataNotFound  = "CUSTOM_DATA_NOT_FOUND"
	CodeCustomDataTooLong   = "CUSTOM_DATA_TOO_LONG"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrMissingCredentials):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Project key or player id not provided"}}
	case errors.Is(err, model.ErrProjectNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProjectNotFound, "Project not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrPlayerExists):
		return &httpError{http.StatusConflict, APIError{CodePlayerExists, "Player already registered"}}
	case errors.Is(err, model.ErrSessionActive):
		return &httpError{http.StatusConflict, APIError{CodeSessionActive, "A session is already active for this player"}}
	case errors.Is(err, model.ErrNoActiveSession):
		return &httpError{http.StatusNotFound, APIError{CodeNoActiveSession, "No active session found"}}
	case errors.Is(err, model.ErrSessionExpired):
		return &httpError{http.StatusForbidden, APIError{CodeSessionExpired, "Session has expired"}}
	case errors.Is(err, model.ErrLeaderboardNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeLeaderboardNotFound, "Leaderboard not found"}}
	case errors.Is(err, model.ErrCustomDataNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCustomDataNotFound, "No custom data stored for this player"}}
	case errors.Is(err, model.ErrCustomDataTooLong):
		return &httpError{http.StatusBadRequest, APIError{CodeCustomDataTooLong, "Custom data exceeds the maximum length"}}
	case errors.Is(err, model.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "Email already registered"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
