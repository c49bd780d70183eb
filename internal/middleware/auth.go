package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/medtrack/internal/ctxkeys"
	"github.com/templui/medtrack/internal/model"
	"github.com/templui/medtrack/internal/service"
)

// IdentityResolver turns an Authorization header into a user.
type IdentityResolver interface {
	Resolve(ctx context.Context, authHeader string) (*model.User, error)
}

// RequireUser rejects requests without a valid bearer token with 401
// and stores the resolved user in the request context.
func RequireUser(identity IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := identity.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				msg := "invalid or expired token"
				if errors.Is(err, service.ErrMissingToken) {
					msg = "authentication required"
				}
				slog.Debug("request not authenticated", "error", err, "path", r.URL.Path)
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
