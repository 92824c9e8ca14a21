package authsvc

import (
	"context"
	"fmt"
	"os"

	"github.com/laxuman02230135/task-management/apperr"
	"github.com/laxuman02230135/task-management/usersvc"
)

var (
	AccessSecret   = getEnv("ACCESS_SECRET", "access-secret")
	CookieHashKey  = getEnv("COOKIE_HASH_KEY", "very-secret")
	CookieBlockKey = getEnv("COOKIE_BLOCK_KEY", "a-lots-of-secret")
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

// CookieName is the cookie carrying the session credential.
const CookieName = "token"

type contextKey string

const (
	CredentialContextKey contextKey = "Credential"
	IdentityContextKey   contextKey = "Identity"
)

func WithIdentity(ctx context.Context, id usersvc.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

func IdentityFromContext(ctx context.Context) (usersvc.Identity, bool) {
	id, ok := ctx.Value(IdentityContextKey).(usersvc.Identity)
	return id, ok && id.ID != 0
}

var ErrInvalidCredentials = fmt.Errorf("login: %w", apperr.ErrInvalidCredentials)
