package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/DevLaukey/cesi-delivery-ms/internal/apperr"
	"github.com/DevLaukey/cesi-delivery-ms/internal/logx"
)

type ctxKey int

const courierIDKey ctxKey = iota

// TokenVerifier resolves a bearer token to a courier ID.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// CourierID returns the authenticated courier ID stored by Auth.
func CourierID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(courierIDKey).(string)
	return id, ok && id != ""
}

// WithCourierID stores a courier ID in the context. Exported for handler tests.
func WithCourierID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, courierIDKey, id)
}

// Auth verifies the bearer token against the identity collaborator and
// stores the courier ID in the request context. An unreachable identity
// service answers 503, never 401: a valid token must not look revoked
// because a collaborator is down.
func Auth(logger logx.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				deny(logger, w, http.StatusUnauthorized, `{"success":false,"error":{"kind":"unauthorized","message":"missing bearer token"}}`)
				return
			}

			courierID, err := verifier.VerifyToken(r.Context(), token)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(WithCourierID(r.Context(), courierID)))
			case errors.Is(err, apperr.ErrUnauthorized):
				deny(logger, w, http.StatusUnauthorized, `{"success":false,"error":{"kind":"unauthorized","message":"invalid token"}}`)
			default:
				logger.Error("token verification failed", logx.Err(err))
				deny(logger, w, http.StatusServiceUnavailable, `{"success":false,"error":{"kind":"dependency_unavailable","message":"identity service unavailable"}}`)
			}
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func deny(logger logx.Logger, w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		logger.Debug("auth response write failed", logx.Err(err))
	}
}
