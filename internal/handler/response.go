package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/moneykeeper/moneykeeper-backend/internal/domain"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

// Error types
const (
	ErrorTypeValidation = "https://moneykeeper.app/errors/validation"
	ErrorTypeNotFound   = "https://moneykeeper.app/errors/not-found"
	ErrorTypeConflict   = "https://moneykeeper.app/errors/conflict"
	ErrorTypePosition   = "https://moneykeeper.app/errors/position-out-of-range"
	ErrorTypeInternal   = "https://moneykeeper.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Instance: c.Request().URL.Path,
		Detail:   detail,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// serviceError maps a service-layer error onto the matching problem
// response. Unknown errors are logged and reported as internal.
func serviceError(c echo.Context, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return NewValidationError(c, ve.Error(), []ValidationError{
			{Field: ve.Field, Rule: ve.Rule, Value: ve.Value},
		})
	}
	var pe *domain.PositionError
	if errors.As(err, &pe) {
		return c.JSON(http.StatusUnprocessableEntity, ProblemDetails{
			Type:     ErrorTypePosition,
			Title:    "Position Out Of Range",
			Status:   http.StatusUnprocessableEntity,
			Detail:   pe.Error(),
			Instance: c.Request().URL.Path,
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFoundError(c, "Resource not found")
	case errors.Is(err, domain.ErrAlreadyDeleted),
		errors.Is(err, domain.ErrNotDeleted),
		errors.Is(err, domain.ErrNoMainCurrency):
		return NewConflictError(c, err.Error())
	}
	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled service error")
	return NewInternalError(c, "Internal error")
}

// pathID parses the :id route parameter; ok is false for a non-numeric or
// non-positive value.
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
