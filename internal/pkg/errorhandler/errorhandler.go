package errorhandler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/linkcard/linkcard-api/internal/middleware"
	"github.com/linkcard/linkcard-api/internal/pkg/logger"
	"github.com/linkcard/linkcard-api/internal/pkg/response"
)

// HandleError logs the failure with the request id and sends the error envelope.
// Server errors log at error level; client errors at warn.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event(ctx, status).
		Str("request_id", middleware.GetRequestID(ctx)).
		Str("error_code", code).
		Int("status_code", status).
		Err(err).
		Msg(message)

	if status >= http.StatusInternalServerError {
		response.InternalError(w)
		return
	}
	response.Error(w, status, code, message)
}

// HandleErrorWithDetails handles an error response with additional details and logging
func HandleErrorWithDetails(ctx context.Context, w http.ResponseWriter, status int, code, message string, details map[string]string, err error) {
	event(ctx, status).
		Str("request_id", middleware.GetRequestID(ctx)).
		Str("error_code", code).
		Int("status_code", status).
		Interface("error_details", details).
		Err(err).
		Msg(message)

	response.ErrorWithDetails(w, status, code, message, details)
}

// LogValidationError logs validation errors with details
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Str("request_id", middleware.GetRequestID(ctx)).
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")
}

func event(ctx context.Context, status int) *zerolog.Event {
	l := logger.FromContext(ctx)
	if status >= http.StatusInternalServerError {
		return l.Error()
	}
	return l.Warn()
}
