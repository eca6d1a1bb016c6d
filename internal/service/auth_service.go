package service

import (
	"errors"
	"time"

	"nodewars/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const tokenTTL = 24 * time.Hour

// AuthService verifies player credentials
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new auth service
func NewAuthService(secret string) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
	}
}

// IssueToken creates a signed token for username
func (s *AuthService) IssueToken(username string) (*model.TokenResponse, error) {
	if username == "" {
		return nil, ErrInvalidRequest
	}

	now := time.Now()
	claims := &model.PlayerClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		Token:    tokenString,
		Username: username,
	}, nil
}

// ValidateToken validates a player JWT and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*model.PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.PlayerClaims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
