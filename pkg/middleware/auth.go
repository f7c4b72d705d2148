package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/chefhut/pkg/auth"
	"github.com/shashiranjanraj/chefhut/pkg/response"
)

type emailKey struct{}
type roleKey struct{}

// Auth validates the bearer token and stores the caller's email and role in
// the request context for rbac and handlers.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.Unauthorized(w)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), emailKey{}, claims.Email)
		ctx = context.WithValue(ctx, roleKey{}, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// EmailFromCtx returns the authenticated caller's email.
func EmailFromCtx(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(emailKey{}).(string)
	return email, ok && email != ""
}

// RoleFromCtx returns the authenticated caller's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok && role != ""
}
