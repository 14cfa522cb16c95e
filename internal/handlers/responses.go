package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"billmaker/internal/common"
	"billmaker/internal/gst"
	"billmaker/internal/repositories"
	"billmaker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError maps a service error onto the error envelope. Unexpected
// errors are logged and reported without detail.
func respondError(c echo.Context, logger *zap.Logger, resource string, err error) error {
	var verr *services.ValidationError
	var fieldErrs validator.ValidationErrors

	switch {
	case errors.As(err, &verr):
		return common.SendValidationError(c, verr.Field, verr.Message)
	case errors.As(err, &fieldErrs) && len(fieldErrs) > 0:
		field, message := describeFieldError(fieldErrs[0])
		return common.SendValidationError(c, field, message)
	case errors.Is(err, gst.ErrInvalidInput):
		return common.SendValidationError(c, "input", err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return common.SendNotFoundError(c, resource)
	default:
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("resource", resource),
			zap.Error(err))
		return common.SendServerError(c, "Internal server error")
	}
}

// currentUser returns the authenticated caller placed in the context by the auth middleware.
func currentUser(c echo.Context) (string, bool) {
	return common.GetUserIDFromContext(c.Request().Context())
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &services.ValidationError{Field: "body", Message: "Invalid request format", Err: err}
	}
	return c.Validate(req)
}

func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return uuid.Nil, &services.ValidationError{Field: "id", Message: err.Error(), Err: err}
	}
	return id, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c echo.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	t, err := common.ParseDate(raw, name)
	if err != nil {
		return nil, &services.ValidationError{Field: name, Message: err.Error(), Err: err}
	}
	return &t, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &services.ValidationError{Field: name, Message: name + " must be a whole number", Err: err}
	}
	return n, nil
}
