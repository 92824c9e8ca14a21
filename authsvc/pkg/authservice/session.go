package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/laxuman02230135/task-management/usersvc"
)

// Session is the outcome of resolving a credential: either an authenticated
// identity or nothing.
type Session struct {
	identity      usersvc.Identity
	authenticated bool
}

func Authenticated(id usersvc.Identity) Session {
	return Session{identity: id, authenticated: true}
}

var Unauthenticated = Session{}

// Identity returns the resolved identity and whether there is one.
func (s Session) Identity() (usersvc.Identity, bool) {
	return s.identity, s.authenticated
}

type SessionResolver interface {
	Resolve(ctx context.Context, credential string) (Session, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uint64) (usersvc.User, error)
}

type resolver struct {
	tokens Tokenizer
	users  UserFinder
	logger log.Logger
}

func NewResolver(tokens Tokenizer, users UserFinder, logger log.Logger) SessionResolver {
	return resolver{tokens: tokens, users: users, logger: logger}
}

// Resolve maps a raw credential to a Session. Every reason a credential is
// unusable collapses into Unauthenticated; only store failures are errors.
func (r resolver) Resolve(ctx context.Context, credential string) (Session, error) {
	if credential == "" {
		return Unauthenticated, nil
	}

	userID, err := r.tokens.Verify(credential)
	if err != nil {
		level.Debug(r.logger).Log("method", "Resolve", "reject", err)
		return Unauthenticated, nil
	}

	u, err := r.users.FindByID(ctx, userID)
	if errors.Is(err, usersvc.ErrUserNotFound) {
		level.Debug(r.logger).Log("method", "Resolve", "reject", "user gone", "user_id", userID)
		return Unauthenticated, nil
	}
	if err != nil {
		return Unauthenticated, fmt.Errorf("resolve session: %w", err)
	}

	return Authenticated(u.Identity()), nil
}
