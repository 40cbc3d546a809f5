package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/http/middleware"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
)

func reqID(ctx context.Context) string {
	if id := chimw.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(successEnvelope{Success: true, Data: data}); err != nil {
		logger.Error("json encode error",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(errorEnvelope{Error: errorBody{Kind: kind, Message: msg}}); err != nil {
		logger.Error("json encode error",
			logx.String("req_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

// writeAppError maps a service error onto the wire taxonomy. The
// original cause is logged here, never sent to the client.
func writeAppError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			logx.String("req_id", reqID(r.Context())),
			logx.Int("status", status),
			logx.Err(err),
		)
	} else {
		logger.Warn("request rejected",
			logx.String("req_id", reqID(r.Context())),
			logx.Int("status", status),
			logx.Err(err),
		)
	}
	writeError(logger, w, r, status, apperr.Kind(err), msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, apperr.ErrNotAssignedCourier):
		return http.StatusForbidden, "not the assigned courier"
	case errors.Is(err, apperr.ErrNotAvailable):
		return http.StatusForbidden, "courier is not available for work"
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, apperr.ErrOrderNotAvailable):
		return http.StatusConflict, "order is not available"
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, "order was modified concurrently, retry"
	case errors.Is(err, apperr.ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

const (
	bodyLimit = 1 << 20
)

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "validation_error", "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "validation_error", "invalid json: trailing data")
		return false
	}
	return true
}

// courierFromCtx reads the authenticated courier set by the auth
// middleware. A missing value means the route was mounted outside the
// auth chain, which is a server bug, not a client one.
func courierFromCtx(logger logx.Logger, w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.CourierID(r.Context())
	if !ok {
		logger.Error("courier id missing from context",
			logx.String("req_id", reqID(r.Context())),
			logx.String("path", r.URL.Path),
		)
		writeError(logger, w, r, http.StatusInternalServerError, "internal", "internal error")
		return "", false
	}
	return id, true
}

func orderIDFromURL(r *http.Request) string {
	return chi.URLParam(r, "orderID")
}
