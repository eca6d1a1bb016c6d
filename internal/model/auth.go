package model

import "github.com/golang-jwt/jwt/v5"

// PlayerClaims are JWT claims identifying a player connection
type PlayerClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// MediaClaims scope a signed media URL to a single object key
type MediaClaims struct {
	Key string `json:"key"`
	jwt.RegisteredClaims
}

// TokenRequest is the request body for issuing a dev token
type TokenRequest struct {
	Username string `json:"username"`
}

// TokenResponse is returned after a token is issued
type TokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
