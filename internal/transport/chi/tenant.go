package chi

import (
	"context"
	"net/http"
	"strings"
)

// cauldronHeader carries the tenant identifier on every API request.
const cauldronHeader = "X-Cauldron-ID"

type cauldronKey struct{}

// CauldronMiddleware extracts the tenant id header into the request
// context. Requests without it are rejected; exempt paths pass through.
func CauldronMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			cauldronID := strings.TrimSpace(r.Header.Get(cauldronHeader))
			if cauldronID == "" {
				writeError(w, http.StatusBadRequest, codeTenantRequired, "missing "+cauldronHeader+" header")
				return
			}

			ctx := context.WithValue(r.Context(), cauldronKey{}, cauldronID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// cauldronFromContext returns the tenant id set by CauldronMiddleware.
func cauldronFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(cauldronKey{}).(string); ok {
		return id
	}
	return ""
}
