package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/gameday/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type validationErrorResponse struct {
	OK      bool     `json:"ok"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

type mappedError struct {
	HTTPStatus int
	Message    string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"ok":false,"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		details := verr.Violations.Messages()
		writeJSON(ctx, w, http.StatusBadRequest, validationErrorResponse{
			OK:      false,
			Message: "Validation failed",
			Details: details,
		})
		return
	}

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, errorResponse{OK: false, Error: mapped.Message})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{OK: false, Error: "Internal server error"})
}

// mapError picks the status and public message for err. Store details never
// reach the response body.
func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, errBodyTooLarge):
		return mappedError{HTTPStatus: http.StatusRequestEntityTooLarge, Message: "Request body too large"}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Message: "Invalid JSON payload"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Message: "Game not found"}
	case errors.Is(err, usecase.ErrConflict):
		return mappedError{HTTPStatus: http.StatusConflict, Message: "A game with this title already exists on this date"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Message: "Database unavailable"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Message: "Internal server error"}
	}
}
