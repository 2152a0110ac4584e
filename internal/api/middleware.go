package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/quickbite/backend/internal/auth"
	"github.com/quickbite/backend/internal/database"
)

type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth verifies the Bearer token and, when admin is set, enforces the
// admin flag baked into the claims.
func (h *Handlers) RequireAuth(admin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respondMessage(w, http.StatusUnauthorized, "token missing")
				return
			}

			claims, err := h.tokens.Verify(parts[1])
			if err != nil {
				h.respondError(w, err)
				return
			}
			if admin && !claims.IsAdmin {
				h.respondError(w, database.ErrForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
