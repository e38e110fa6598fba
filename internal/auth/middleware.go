package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey string

// UserClaimsKey is the context key for user claims.
const UserClaimsKey = contextKey("userClaims")

// TestIdentity is the identity attached to requests carrying the test token.
var TestIdentity = Claims{UserID: 1, Username: "testuser"}

// Verifier validates bearer tokens.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// Authenticator guards protected routes.
type Authenticator struct {
	verifier  Verifier
	testToken string
}

// NewAuthenticator creates an Authenticator. A non-empty testToken is accepted
// verbatim and mapped to TestIdentity; pass "" to disable it.
func NewAuthenticator(verifier Verifier, testToken string) *Authenticator {
	return &Authenticator{verifier: verifier, testToken: testToken}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// ClaimsFromContext returns the identity attached by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok && claims != nil
}

// Middleware rejects requests without a valid bearer token (401 when absent,
// 403 when invalid) and passes the resolved claims down via context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.authenticate(r.Header.Get("Authorization"))
		switch {
		case errors.Is(err, ErrMissingToken):
			writeMessage(w, http.StatusUnauthorized, "Missing token")
			return
		case err != nil:
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
			writeMessage(w, http.StatusForbidden, "Invalid token")
			return
		}

		ctx := WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) authenticate(header string) (*Claims, error) {
	scheme, token, ok := parseAuthorization(header)
	if !ok {
		return nil, ErrMissingToken
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return nil, ErrInvalidToken
	}

	if a.testToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(a.testToken)) == 1 {
		identity := TestIdentity
		return &identity, nil
	}
	return a.verifier.Verify(token)
}

// parseAuthorization splits "Bearer <token>". ok is false when no token is present.
func parseAuthorization(header string) (scheme, token string, ok bool) {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
