package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/thikabizhub/bizhub-backend/internal/domain/auth"
	"github.com/thikabizhub/bizhub-backend/internal/domain/user"
	"github.com/thikabizhub/bizhub-backend/internal/handler/http/response"
	"github.com/thikabizhub/bizhub-backend/internal/pkg/jwt"
)

// Identity is the caller described by a verified access token.
type Identity struct {
	UserID string
	Email  string
	Role   user.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}

type identityKey struct{}

// identityFromToken reads the access-token claims that jwtauth.Verifier put on ctx.
func identityFromToken(ctx context.Context) (Identity, bool) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil {
		return Identity{}, false
	}

	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != jwt.TypeAccess {
		return Identity{}, false
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, false
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return Identity{UserID: userID, Email: email, Role: user.Role(role)}, true
}

// CurrentUser returns the identity stored by AuthRequired or, on public
// routes, the one carried by a valid optional bearer token.
func CurrentUser(ctx context.Context) (Identity, bool) {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id, true
	}
	return identityFromToken(ctx)
}

func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identityFromToken(r.Context())
		if !ok {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
