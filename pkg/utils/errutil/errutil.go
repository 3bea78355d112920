package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/voiceops-lab/mnemosyne/pkg/domain/types"
	"github.com/voiceops-lab/mnemosyne/pkg/utils/logging"
)

// Handle logs the error with its goerr values and stack, reports it to
// Sentry when a hub is configured, and returns it unchanged so callers can
// keep propagating.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
	} else if client := sentry.CurrentHub().Client(); client != nil {
		sentry.CaptureException(err)
	}

	return err
}

// StatusCode maps the error taxonomy to an HTTP status. Isolation errors
// intentionally map to 404: the caller must not learn that the record
// exists under another tenant.
func StatusCode(err error) int {
	switch {
	case goerr.HasTag(err, types.TagIsolation):
		return http.StatusNotFound
	case goerr.HasTag(err, types.TagAuthn):
		return http.StatusUnauthorized
	case goerr.HasTag(err, types.TagAuthz):
		return http.StatusForbidden
	case goerr.HasTag(err, types.TagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.TagConflict):
		return http.StatusConflict
	case goerr.HasTag(err, types.TagNotFound):
		return http.StatusNotFound
	case goerr.HasTag(err, types.TagDependency):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleHTTP logs the error and writes a JSON error response with the
// status derived from the error taxonomy. Internal error details are not
// exposed for 5xx responses.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	status := StatusCode(err)

	logger := logging.From(ctx)
	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", status,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error("HTTP error",
			"status", status,
			"error", err.Error(),
		)
	}

	if status >= 500 {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
		} else if client := sentry.CurrentHub().Client(); client != nil {
			sentry.CaptureException(err)
		}
	}

	msg := err.Error()
	if status >= 500 {
		msg = http.StatusText(status)
	}
	if goerr.HasTag(err, types.TagIsolation) {
		msg = "not found"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(errorResponse{Error: msg}); encodeErr != nil {
		logger.Warn("failed to write error response", "error", encodeErr)
	}
}
