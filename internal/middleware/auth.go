package middleware

import (
	"context"
	"net/http"

	"event-booking-portal/internal/session"
)

type contextKey string

const principalContextKey contextKey = "principal"

// LoadPrincipal reads the session once per request and stores the
// authenticated identity in the request context.
func LoadPrincipal(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, ok := store.Get(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), principalContextKey, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth redirects anonymous requests to the login page with 303.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetPrincipal(r.Context()); !ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal returns the authenticated session data, if any.
func GetPrincipal(ctx context.Context) (session.Data, bool) {
	data, ok := ctx.Value(principalContextKey).(session.Data)
	return data, ok
}

// WithPrincipal returns a context carrying data. Used by handler tests.
func WithPrincipal(ctx context.Context, data session.Data) context.Context {
	return context.WithValue(ctx, principalContextKey, data)
}
