package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nikhil/teamtask/internal/auth"
)

type ContextKey string

const UserContextKey ContextKey = "currentUser"

// Middleware authenticates requests against a token verifier.
type Middleware struct {
	Tokens *auth.Tokens
}

func New(tokens *auth.Tokens) *Middleware {
	return &Middleware{Tokens: tokens}
}

// Authenticate verifies the Authorization bearer header and puts the
// resolved principal on the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing auth token", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		principal, err := m.Tokens.Verify(tokenStr)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthenticateWebSocket verifies the token query parameter during the
// websocket handshake. A bad token refuses the connection before any
// subscription is possible.
func (m *Middleware) AuthenticateWebSocket(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "Missing auth token", http.StatusUnauthorized)
			return
		}

		principal, err := m.Tokens.Verify(tokenStr)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResponseWrapper sets the JSON content type on every response.
func ResponseWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// PrincipalFrom extracts the authenticated principal from the context.
func PrincipalFrom(ctx context.Context) (*auth.Principal, bool) {
	principal, ok := ctx.Value(UserContextKey).(*auth.Principal)
	return principal, ok
}
