package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"ngx/internal/platform/token"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/platform/httputil"
	"ngx/pkg/requestcontext"
)

// TokenValidator verifies admin bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access, missing bearer token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access, invalid token",
					"request_id", requestID,
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}
			if claims.Role != token.RoleAdmin {
				logger.WarnContext(ctx, "forbidden access, non-admin token",
					"request_id", requestID,
					"subject", claims.Subject,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin role required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
