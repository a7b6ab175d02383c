package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"passvault/internal/errors"
	"passvault/internal/logging"
)

// failure converts a service error into an echo HTTP error, logging the
// cause of anything that maps to a generic 500.
func failure(ctx context.Context, log logging.Logger, op string, err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Error(ctx, op+" failed", "err", err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "VALIDATION_ERROR",
	})
}

// MessageResponse is the body of operations that return no data.
type MessageResponse struct {
	Message string `json:"message"`
}
