package authservice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/laxuman02230135/task-management/authsvc"
	"github.com/laxuman02230135/task-management/usersvc"
)

type Service interface {
	Register(ctx context.Context, name, email, password string) (usersvc.Identity, Credential, error)
	Login(ctx context.Context, email, password string) (usersvc.Identity, Credential, error)
}

// Credential is a freshly issued token and the moment it stops being valid.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

func New(t Tokenizer, users usersvc.UserRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(t, users)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	tokenizer     Tokenizer
	users         usersvc.UserRepository
	checkPassword func(hash, password string) bool
}

func NewBasicService(t Tokenizer, users usersvc.UserRepository) Service {
	return &basicService{tokenizer: t, users: users, checkPassword: usersvc.CheckPassword}
}

var (
	unknownUserHash     string
	unknownUserHashOnce sync.Once
)

// unknownUser returns a hash no password matches. Comparing against it keeps
// a login for an unregistered email as slow as one with a wrong password.
func unknownUser() string {
	unknownUserHashOnce.Do(func() {
		unknownUserHash, _ = usersvc.HashPassword("unknown user placeholder")
	})
	return unknownUserHash
}

func (s *basicService) Register(ctx context.Context, name, email, password string) (usersvc.Identity, Credential, error) {
	name, err := usersvc.ValidateName(name)
	if err != nil {
		return usersvc.Identity{}, Credential{}, err
	}
	email, err = usersvc.ValidateEmail(email)
	if err != nil {
		return usersvc.Identity{}, Credential{}, err
	}
	if err := usersvc.ValidatePassword(password); err != nil {
		return usersvc.Identity{}, Credential{}, err
	}

	hash, err := usersvc.HashPassword(password)
	if err != nil {
		return usersvc.Identity{}, Credential{}, err
	}

	u, err := s.users.Create(ctx, usersvc.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		return usersvc.Identity{}, Credential{}, err
	}

	return s.issue(u)
}

func (s *basicService) Login(ctx context.Context, email, password string) (usersvc.Identity, Credential, error) {
	if email == "" || password == "" {
		return usersvc.Identity{}, Credential{}, authsvc.ErrInvalidCredentials
	}

	u, err := s.users.FindByEmail(ctx, usersvc.NormalizeEmail(email))
	if errors.Is(err, usersvc.ErrUserNotFound) {
		s.checkPassword(unknownUser(), password)
		return usersvc.Identity{}, Credential{}, authsvc.ErrInvalidCredentials
	}
	if err != nil {
		return usersvc.Identity{}, Credential{}, err
	}

	if !s.checkPassword(u.PasswordHash, password) {
		return usersvc.Identity{}, Credential{}, authsvc.ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *basicService) issue(u usersvc.User) (usersvc.Identity, Credential, error) {
	token, expiry, err := s.tokenizer.Generate(u.ID)
	if err != nil {
		return usersvc.Identity{}, Credential{}, err
	}
	return u.Identity(), Credential{Token: token, ExpiresAt: expiry}, nil
}
