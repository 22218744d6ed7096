package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/clinic-bookings/internal/http/response"
	"github.com/diagnosis/clinic-bookings/internal/platform/auth"
	"github.com/diagnosis/clinic-bookings/internal/repo/postgres"
	"github.com/diagnosis/clinic-bookings/internal/utils"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// RequireJWT rejects requests without a bearer credential (401) and requests
// whose credential fails signature or expiry checks (403). On success the
// verified claims ride the request context.
func RequireJWT(mgr *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				response.Unauthorized(w, "unauthorized access")
				return
			}
			raw := strings.TrimPrefix(authz, "Bearer ")
			claims, err := mgr.Parse(raw)
			if err != nil {
				response.Forbidden(w, "forbidden access")
				return
			}
			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates elevated routes. It runs after RequireJWT: the token's
// email claim is only used to look the account up, never trusted for the
// role itself.
func RequireAdmin(users postgres.UsersRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := Claims(r)
			if claims == nil {
				response.Unauthorized(w, "unauthorized access")
				return
			}
			u, err := users.FindByEmail(r.Context(), utils.NormalizeEmail(claims.Email))
			if err != nil {
				response.InternalError(w, "error loading account")
				return
			}
			if !u.IsAdmin() {
				response.Forbidden(w, "forbidden access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func Claims(r *http.Request) *auth.Claims {
	v := r.Context().Value(CtxClaims)
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
