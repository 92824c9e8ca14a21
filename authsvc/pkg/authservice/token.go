package authservice

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokenizer issues and checks the signed token carried by the session cookie.
type Tokenizer interface {
	Generate(userID uint64) (token string, expiresAt time.Time, err error)
	Verify(token string) (userID uint64, err error)
}

type tokenizer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenizer(secret string, ttl time.Duration) Tokenizer {
	return &tokenizer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *tokenizer) Generate(userID uint64) (string, time.Time, error) {
	now := t.now()
	expiry := now.Add(t.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	hash, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return hash, expiry, nil
}

var ErrSubjectInvalid = errors.New("token subject is not a user id")

func (t *tokenizer) Verify(token string) (uint64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return 0, fmt.Errorf("verify token: %w", err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrSubjectInvalid
	}

	return userID, nil
}
