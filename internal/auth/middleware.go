package auth

import (
	"net/http"
	"strings"

	"github.com/davr-ledger/davr-ledger/internal/platform/httpx"
	"github.com/davr-ledger/davr-ledger/internal/shared"
)

// RequireOwner authenticates the Bearer token and stores the owner id in the
// request context. Requests without a valid key never reach the ledger.
func RequireOwner(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			ownerID, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(shared.ContextWithOwner(r.Context(), ownerID)))
		})
	}
}
