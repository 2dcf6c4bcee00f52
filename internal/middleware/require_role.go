package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/markjakearzadon/mindcare-gobackend/internal/models"
	"github.com/markjakearzadon/mindcare-gobackend/internal/services"
)

type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

// RequireRole rejects requests without a valid bearer token (401) or whose
// role is not one of roles (403).
func RequireRole(parser TokenParser, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				fail(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			claims, err := parser.ParseToken(token)
			if err != nil {
				fail(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, claims.Role) {
				fail(w, http.StatusForbidden, "Access denied")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyClaims, claims)))
		})
	}
}

func CurrentClaims(ctx context.Context) (*services.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(*services.Claims)
	return c, ok
}
