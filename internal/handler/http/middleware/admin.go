package middleware

import (
	"net/http"

	"github.com/thikabizhub/bizhub-backend/internal/domain/auth"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
)

// AdminOnly must run after AuthRequired.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := CurrentUser(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if !id.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeNeeded)
			return
		}

		next.ServeHTTP(w, r)
	})
}
