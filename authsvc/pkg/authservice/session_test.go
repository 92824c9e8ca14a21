package authservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/laxuman02230135/task-management/usersvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserFinder struct {
	calls int
	users map[uint64]usersvc.User
	err   error
}

func (f *fakeUserFinder) FindByID(_ context.Context, id uint64) (usersvc.User, error) {
	f.calls++
	if f.err != nil {
		return usersvc.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}
	return u, nil
}

func newFinder() *fakeUserFinder {
	return &fakeUserFinder{users: map[uint64]usersvc.User{
		7: {ID: 7, Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"},
	}}
}

func TestResolve_NoCredentialSkipsStore(t *testing.T) {
	users := newFinder()
	r := NewResolver(NewTokenizer("secret", time.Hour), users, log.NewNopLogger())

	s, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.Zero(t, users.calls)
}

func TestResolve_Authenticated(t *testing.T) {
	tk := NewTokenizer("secret", time.Hour)
	token, _, err := tk.Generate(7)
	require.NoError(t, err)

	users := newFinder()
	s, err := NewResolver(tk, users, log.NewNopLogger()).Resolve(context.Background(), token)
	require.NoError(t, err)

	id, ok := s.Identity()
	require.True(t, ok)
	assert.Equal(t, usersvc.Identity{ID: 7, Name: "Ada", Email: "ada@example.com"}, id)
	assert.Equal(t, 1, users.calls)
}

func TestResolve_UnusableCredentials(t *testing.T) {
	tk := NewTokenizer("secret", time.Hour)

	past := &tokenizer{secret: []byte("secret"), ttl: time.Minute, now: func() time.Time { return time.Now().Add(-time.Hour) }}
	expired, _, err := past.Generate(7)
	require.NoError(t, err)

	forged, _, err := NewTokenizer("guess", time.Hour).Generate(7)
	require.NoError(t, err)

	deleted, _, err := tk.Generate(99)
	require.NoError(t, err)

	for name, credential := range map[string]string{
		"expired":       expired,
		"bad signature": forged,
		"garbage":       "abc.def.ghi",
		"deleted user":  deleted,
	} {
		t.Run(name, func(t *testing.T) {
			s, err := NewResolver(tk, newFinder(), log.NewNopLogger()).Resolve(context.Background(), credential)
			require.NoError(t, err)
			assert.Equal(t, Unauthenticated, s)
		})
	}
}

func TestResolve_StoreFailureIsAnError(t *testing.T) {
	tk := NewTokenizer("secret", time.Hour)
	token, _, err := tk.Generate(7)
	require.NoError(t, err)

	boom := errors.New("connection refused")
	_, err = NewResolver(tk, &fakeUserFinder{err: boom}, log.NewNopLogger()).Resolve(context.Background(), token)
	assert.ErrorIs(t, err, boom)
}
