package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coursedesk/credits-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Fields
// beyond Error are populated only for structured failures.
type errorResponse struct {
	Error     string   `json:"error"`
	Fields    []string `json:"fields,omitempty"`
	Available *int     `json:"available,omitempty"`
	Required  *int     `json:"required,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders structured payloads for validation and insufficient-credit
//     failures so the UI can distinguish "buy more credits" from "retry".
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Structured domain errors carry extra payload.
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return http.StatusUnprocessableEntity, errorResponse{
			Error:  "missing required fields",
			Fields: validation.Fields,
		}
	}
	var insufficient *domain.InsufficientCreditsError
	if errors.As(err, &insufficient) {
		return http.StatusConflict, errorResponse{
			Error:     "insufficient credits",
			Available: &insufficient.Available,
			Required:  &insufficient.Required,
		}
	}

	// Sentinel domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrGroupNotFound):
		return http.StatusNotFound, errorResponse{Error: "issuance group not found"}
	case errors.Is(err, domain.ErrTicketNotFound):
		return http.StatusNotFound, errorResponse{Error: "ticket not found"}
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
