package userservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/laxuman02230135/task-management/usersvc"
)

type Service interface {
	UpdateProfile(ctx context.Context, userID uint64, edit ProfileEdit) (usersvc.Identity, error)
}

// ProfileEdit is a profile form submission. A blank Password keeps the
// current one, a nil Avatar keeps the current picture.
type ProfileEdit struct {
	Name     string
	Email    string
	Password string
	Avatar   []byte
}

type AvatarStore interface {
	Save(ctx context.Context, data []byte) (string, error)
	Remove(ctx context.Context, url string) error
}

func New(users usersvc.UserRepository, avatars AvatarStore, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(users, avatars, logger)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	users   usersvc.UserRepository
	avatars AvatarStore
	logger  log.Logger
}

func NewBasicService(users usersvc.UserRepository, avatars AvatarStore, logger log.Logger) Service {
	return basicService{users: users, avatars: avatars, logger: logger}
}

func (s basicService) UpdateProfile(ctx context.Context, userID uint64, edit ProfileEdit) (usersvc.Identity, error) {
	name, err := usersvc.ValidateName(edit.Name)
	if err != nil {
		return usersvc.Identity{}, err
	}
	email, err := usersvc.ValidateEmail(edit.Email)
	if err != nil {
		return usersvc.Identity{}, err
	}

	patch := usersvc.Patch{Name: name, Email: email}
	if edit.Password != "" {
		if err := usersvc.ValidatePassword(edit.Password); err != nil {
			return usersvc.Identity{}, err
		}
		if patch.PasswordHash, err = usersvc.HashPassword(edit.Password); err != nil {
			return usersvc.Identity{}, err
		}
	}

	if len(edit.Avatar) > 0 {
		if patch.AvatarURL, err = s.avatars.Save(ctx, edit.Avatar); err != nil {
			return usersvc.Identity{}, err
		}
	}

	u, err := s.users.Update(ctx, userID, patch)
	if err != nil {
		if patch.AvatarURL != "" {
			if rerr := s.avatars.Remove(context.Background(), patch.AvatarURL); rerr != nil {
				s.logger.Log("during", "RemoveAvatar", "url", patch.AvatarURL, "err", rerr)
			}
		}
		return usersvc.Identity{}, err
	}

	return u.Identity(), nil
}
