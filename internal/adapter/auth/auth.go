// Package auth guards the admin surface with a bcrypt checked password and
// short lived HS256 bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niksmo/shop-pos/internal/core/domain"
	"github.com/niksmo/shop-pos/internal/core/port"
	"golang.org/x/crypto/bcrypt"
)

var _ port.Authenticator = (*Authenticator)(nil)

const (
	adminSubject    = "admin"
	tokenIssuer     = "shop-pos"
	defaultTokenTTL = 12 * time.Hour
)

type Config struct {
	PasswordHash string
	TokenSecret  string
	TokenTTL     time.Duration
	Clock        func() time.Time
}

type Authenticator struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(cfg Config) (Authenticator, error) {
	const op = "auth.New"

	if cfg.TokenSecret == "" {
		return Authenticator{}, fmt.Errorf("%s: token secret is required", op)
	}
	if cfg.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.PasswordHash)); err != nil {
			return Authenticator{}, fmt.Errorf("%s: invalid password hash: %w", op, err)
		}
	} else {
		slog.Warn("admin password is not set, admin login disabled", "op", op)
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return Authenticator{
		hash:   []byte(cfg.PasswordHash),
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
		now:    cfg.Clock,
	}, nil
}

// HashPassword returns the bcrypt hash stored in admin.password_hash.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Login checks password and issues a signed admin token.
func (a Authenticator) Login(ctx context.Context, password string) (string, error) {
	const op = "Authenticator.Login"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(a.hash) == 0 {
		return "", fmt.Errorf("%s: %w: admin login disabled", op, domain.ErrUnauthorized)
	}

	err := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if err != nil {
		log.Warn("admin login rejected")
		return "", fmt.Errorf("%s: %w: wrong password", op, domain.ErrUnauthorized)
	}

	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	})

	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin logged in")
	return signed, nil
}

// Verify accepts only unexpired admin tokens signed with HS256.
func (a Authenticator) Verify(token string) error {
	const op = "Authenticator.Verify"

	if token == "" {
		return fmt.Errorf("%s: %w: missing token", op, domain.ErrUnauthorized)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("%s: %w: token expired", op, domain.ErrUnauthorized)
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrUnauthorized, err)
	}
	return nil
}
