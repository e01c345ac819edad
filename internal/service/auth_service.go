package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTTL     = time.Hour
	tokenSubject = "operator"
)

// Domain errors for auth flows.
var (
	ErrAuthDisabled    = errors.New("authentication is not configured")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid token")
)

// AuthService issues and checks operator tokens for the status API.
// There is a single operator whose bcrypt hash comes from config.
type AuthService struct {
	passwordHash []byte
	signingKey   []byte
	now          func() time.Time
}

func NewAuthService(passwordHash, signingKey string) *AuthService {
	return &AuthService{
		passwordHash: []byte(strings.TrimSpace(passwordHash)),
		signingKey:   []byte(signingKey),
		now:          time.Now,
	}
}

// Enabled reports whether the API should require tokens.
func (s *AuthService) Enabled() bool {
	return len(s.signingKey) > 0
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken checks the operator password and returns a signed JWT.
func (s *AuthService) GenerateToken(password string) (string, error) {
	if !s.Enabled() || len(s.passwordHash) == 0 {
		return "", ErrAuthDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   tokenSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(s.signingKey)
}

// ParseToken validates the token and returns its subject.
func (s *AuthService) ParseToken(accessToken string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != tokenSubject {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
