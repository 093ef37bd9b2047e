package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

type contextKey string

const uidContextKey contextKey = "uid"

// Middleware validates bearer tokens from the identity provider and exposes
// the caller's uid (the token subject) to downstream handlers. Everything
// about the authentication protocol itself is delegated to the provider.
type Middleware struct {
	Verifier *oidc.IDTokenVerifier
}

// NewMiddleware builds an OIDC middleware for the given issuer and client id.
func NewMiddleware(ctx context.Context, issuerURL, clientID string) (*Middleware, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	return &Middleware{
		Verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// RequireUser rejects requests without a valid bearer token and stores the
// verified uid in the request context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}
		rawToken := strings.TrimPrefix(authHeader, "Bearer ")

		idToken, err := m.Verifier.Verify(r.Context(), rawToken)
		if err != nil {
			log.Printf("Token verification failed: %v", err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := WithUID(r.Context(), idToken.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUID returns a context carrying the verified caller uid.
func WithUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, uidContextKey, uid)
}

// UIDFromContext returns the verified caller uid, if any.
func UIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(uidContextKey).(string)
	return uid, ok && uid != ""
}
