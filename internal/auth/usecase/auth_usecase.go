package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/web5lab/customer-bot-app/pkg/config"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// AuthUsecase resolves the calling user from a bearer credential. Identity
// issuance lives with the main app; this service only verifies.
type AuthUsecase interface {
	// ValidateToken verifies an access token and returns the user ID it
	// was issued to.
	ValidateToken(tokenString string) (string, error)

	// GenerateToken mints an access token for a user. Used by operator
	// tooling and tests.
	GenerateToken(userID string) (string, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	secret []byte
	expiry time.Duration
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(cfg *config.Config) AuthUsecase {
	return &authUsecase{
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.JWTAccessExpiry,
	}
}

func (u *authUsecase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return u.secret, nil
	})

	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}

	return userID, nil
}

func (u *authUsecase) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(u.expiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.secret)
}
