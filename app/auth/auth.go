// Package auth guards admin routes.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/italianshoes/catalog/app/api"
)

var (
	// ErrUnauthenticated means the request carried no credentials.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the credentials do not grant admin access.
	ErrForbidden = errors.New("forbidden")
)

// Authorizer decides whether a request comes from an administrator.
type Authorizer interface {
	AuthorizeAdmin(r *http.Request) error
}

// TokenAuthorizer accepts requests bearing the configured admin token.
// An empty token denies everyone.
type TokenAuthorizer struct {
	token []byte
}

func NewTokenAuthorizer(token string) *TokenAuthorizer {
	return &TokenAuthorizer{token: []byte(token)}
}

func (a *TokenAuthorizer) AuthorizeAdmin(r *http.Request) error {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ErrUnauthenticated
	}
	scheme, presented, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || presented == "" {
		return ErrUnauthenticated
	}
	if len(a.token) == 0 || subtle.ConstantTimeCompare([]byte(presented), a.token) != 1 {
		return ErrForbidden
	}
	return nil
}

// RequireAdmin answers 401 without credentials and 403 with credentials
// that are not an administrator's.
func RequireAdmin(a Authorizer, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := a.AuthorizeAdmin(r)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, ErrUnauthenticated):
				w.Header().Set("WWW-Authenticate", `Bearer realm="catalog"`)
				api.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
			case errors.Is(err, ErrForbidden):
				logger.Warn("admin access denied", zap.String("method", r.Method), zap.String("path", r.URL.Path))
				api.ErrorResponse(w, http.StatusForbidden, "Admin access required")
			default:
				logger.Error("authorizing request", zap.Error(err))
				api.ErrorResponse(w, http.StatusInternalServerError, "Failed to authorize request")
			}
		})
	}
}
