package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"nodewars/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// MediaSigner turns stored media object keys into expiring URLs
type MediaSigner struct {
	baseURL string
	secret  []byte
	ttl     time.Duration
}

// NewMediaSigner creates a signer for objects under baseURL
func NewMediaSigner(baseURL, secret string, ttl time.Duration) *MediaSigner {
	return &MediaSigner{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		ttl:     ttl,
	}
}

// SignURL returns a URL for key valid for the signer's ttl. An empty key
// yields an empty URL.
func (m *MediaSigner) SignURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	now := time.Now()
	claims := &model.MediaClaims{
		Key: key,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	sig, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign media url: %w", err)
	}

	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/%s?sig=%s", m.baseURL, strings.Join(segments, "/"), url.QueryEscape(sig)), nil
}

// Verify checks a signature produced by SignURL and returns its object key
func (m *MediaSigner) Verify(sig string) (string, error) {
	token, err := jwt.ParseWithClaims(sig, &model.MediaClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.MediaClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Key, nil
}
