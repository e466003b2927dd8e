package middleware

import (
	"context"
	"net/http"
	"strings"
)

// IdentityHeader carries the caller identity, set by the authenticating
// proxy in front of this service. The value is either a raw user id or
// an email address.
const IdentityHeader = "X-User-Token"

type identityCtxKey struct{}

// Identity copies the trusted identity header into the request context.
func Identity() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := strings.TrimSpace(r.Header.Get(IdentityHeader)); token != "" {
				r = r.WithContext(context.WithValue(r.Context(), identityCtxKey{}, token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromRequest returns the caller identity token, or "" when the
// request carried none.
func IdentityFromRequest(r *http.Request) string {
	token, _ := r.Context().Value(identityCtxKey{}).(string)
	return token
}
