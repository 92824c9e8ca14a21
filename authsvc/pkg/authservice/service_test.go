package authservice

import (
	"context"
	"testing"
	"time"

	"github.com/laxuman02230135/task-management/apperr"
	"github.com/laxuman02230135/task-management/authsvc"
	"github.com/laxuman02230135/task-management/usersvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	byID map[uint64]usersvc.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[uint64]usersvc.User{}}
}

func (m *memUsers) Create(_ context.Context, u usersvc.User) (usersvc.User, error) {
	if _, err := m.FindByEmail(context.Background(), u.Email); err == nil {
		return usersvc.User{}, usersvc.ErrEmailExists
	}
	u.ID = uint64(len(m.byID) + 1)
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) FindByID(_ context.Context, id uint64) (usersvc.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return usersvc.User{}, usersvc.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (usersvc.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return usersvc.User{}, usersvc.ErrUserNotFound
}

func (m *memUsers) Update(context.Context, uint64, usersvc.Patch) (usersvc.User, error) {
	panic("not used")
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	tk := NewTokenizer("secret", time.Hour)
	users := newMemUsers()
	svc := NewBasicService(tk, users)

	id, c, err := svc.Register(ctx, "Ada", "Ada@Example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.NotEqual(t, "correct horse", users.byID[id.ID].PasswordHash)

	userID, err := tk.Verify(c.Token)
	require.NoError(t, err)
	assert.Equal(t, id.ID, userID)

	logged, _, err := svc.Login(ctx, " ADA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, id, logged)

	_, _, err = svc.Register(ctx, "Imposter", "ada@example.com", "another pass")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := NewBasicService(NewTokenizer("secret", time.Hour), newMemUsers())
	_, _, err := svc.Register(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	for name, creds := range map[string][2]string{
		"wrong password": {"ada@example.com", "battery staple"},
		"unknown email":  {"bob@example.com", "correct horse"},
		"blank":          {"", ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, creds[0], creds[1])
			assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
			assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
		})
	}
}

func TestLogin_UnknownEmailStillComparesHash(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	svc := &basicService{tokenizer: NewTokenizer("secret", time.Hour), users: users}

	var compared []string
	svc.checkPassword = func(hash, password string) bool {
		compared = append(compared, hash)
		return usersvc.CheckPassword(hash, password)
	}

	_, _, err := svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
	require.Len(t, compared, 1)
	assert.Equal(t, unknownUser(), compared[0])
	assert.False(t, usersvc.CheckPassword(compared[0], "correct horse"))

	hash, err := usersvc.HashPassword("correct horse")
	require.NoError(t, err)
	_, err = users.Create(ctx, usersvc.User{Name: "Ada", Email: "ada@example.com", PasswordHash: hash})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "ada@example.com", "battery staple")
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
	require.Len(t, compared, 2)
	assert.Equal(t, hash, compared[1])
}

func TestRegister_Validation(t *testing.T) {
	svc := NewBasicService(NewTokenizer("secret", time.Hour), newMemUsers())

	_, _, err := svc.Register(context.Background(), "Ada", "ada@example.com", "short")
	v, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "password", v.Field)
}
