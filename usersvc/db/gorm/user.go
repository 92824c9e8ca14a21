package gorm

import (
	"context"
	"errors"

	"github.com/laxuman02230135/task-management/usersvc"
	stdgorm "gorm.io/gorm"
)

type userRepository struct {
	db *stdgorm.DB
}

func NewUserRepository(db *stdgorm.DB) usersvc.UserRepository {
	return &userRepository{db}
}

func (u *userRepository) Create(ctx context.Context, user usersvc.User) (usersvc.User, error) {
	if err := u.emailTaken(ctx, user.Email, 0); err != nil {
		return usersvc.User{}, err
	}

	result := u.db.WithContext(ctx).Create(&user)
	return user, u.duplicate(result.Error)
}

func (u *userRepository) FindByID(ctx context.Context, id uint64) (usersvc.User, error) {
	var user usersvc.User
	result := u.db.WithContext(ctx).First(&user, id)

	return user, notFound(result.Error)
}

func (u *userRepository) FindByEmail(ctx context.Context, email string) (usersvc.User, error) {
	var user usersvc.User
	result := u.db.WithContext(ctx).Where("email = ?", email).First(&user)

	return user, notFound(result.Error)
}

func (u *userRepository) Update(ctx context.Context, id uint64, p usersvc.Patch) (usersvc.User, error) {
	if err := u.emailTaken(ctx, p.Email, id); err != nil {
		return usersvc.User{}, err
	}

	var user usersvc.User
	err := u.db.WithContext(ctx).Transaction(func(tx *stdgorm.DB) error {
		if err := notFound(tx.First(&user, id).Error); err != nil {
			return err
		}

		columns := map[string]interface{}{
			"name":  p.Name,
			"email": p.Email,
		}
		if p.PasswordHash != "" {
			columns["password_hash"] = p.PasswordHash
		}
		if p.AvatarURL != "" {
			columns["avatar_url"] = p.AvatarURL
		}

		return tx.Model(&user).Updates(columns).Error
	})
	if err = u.duplicate(err); err != nil {
		return usersvc.User{}, err
	}

	return u.FindByID(ctx, id)
}

// emailTaken fails when email belongs to a user other than self.
func (u *userRepository) emailTaken(ctx context.Context, email string, self uint64) error {
	var user usersvc.User
	err := u.db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&user).Error
	if err != nil {
		return err
	}
	if user.ID != 0 && user.ID != self {
		return usersvc.ErrEmailExists
	}
	return nil
}

// duplicate reports a unique index violation as ErrEmailExists. It covers a
// writer that takes the email between emailTaken and the write.
func (u *userRepository) duplicate(err error) error {
	if err == nil {
		return nil
	}
	if t, ok := u.db.Dialector.(stdgorm.ErrorTranslator); ok {
		err = t.Translate(err)
	}
	if errors.Is(err, stdgorm.ErrDuplicatedKey) {
		return usersvc.ErrEmailExists
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, stdgorm.ErrRecordNotFound) {
		return usersvc.ErrUserNotFound
	}
	return err
}
