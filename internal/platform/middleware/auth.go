package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"aakseva/pkg/requestcontext"
)

// TokenVerifier validates a signed admin token and returns its claims.
type TokenVerifier interface {
	Verify(tokenString string) (*AdminClaims, error)
}

// RevocationChecker reports whether a token's JTI has been revoked (logout).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AdminClaims are the claims the middleware expects from the verifier.
type AdminClaims struct {
	Email string
	Name  string
	Role  string
	JTI   string
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}

// RequireAdmin gates admin-only routes behind a bearer token. On success the
// admin identity lands in the request context for handlers and audit trails.
func RequireAdmin(verifier TokenVerifier, revocation RevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid Authorization header")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if claims.Role != "admin" {
				logger.WarnContext(ctx, "forbidden access - non-admin token",
					"role", claims.Role,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusForbidden, "admin access required")
				return
			}

			if revocation != nil {
				revoked, err := revocation.IsRevoked(ctx, claims.JTI)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				if revoked {
					logger.WarnContext(ctx, "unauthorized access - token revoked",
						"jti", claims.JTI,
						"request_id", requestID,
					)
					writeJSONError(w, http.StatusUnauthorized, "token has been revoked")
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithAdmin(ctx, claims.Email, claims.Name)))
		})
	}
}
