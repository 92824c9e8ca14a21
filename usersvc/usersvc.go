package usersvc

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/laxuman02230135/task-management/apperr"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           uint64 `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the part of a User that may leave the server.
type Identity struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, AvatarURL: u.AvatarURL}
}

// Patch lists the columns an update may touch. Empty PasswordHash and
// AvatarURL leave the stored values alone.
type Patch struct {
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
}

type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)
	FindByID(ctx context.Context, id uint64) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, id uint64, p Patch) (User, error)
}

var (
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrEmailExists  = fmt.Errorf("%w: email already registered", apperr.ErrConflict)
)

const MinPasswordLength = 8

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Invalid("name", "name is required")
	}
	return name, nil
}

func ValidateEmail(email string) (string, error) {
	email = NormalizeEmail(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperr.Invalid("email", "email is invalid")
	}
	return email, nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperr.Invalid("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
