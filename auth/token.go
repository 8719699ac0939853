package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sureshpilli97/ChatCresr-Server/errors"
)

const issuer = "chatcrest"

// CustomClaims defines the structure of the data stored inside the JWT.
type CustomClaims struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity is what a verified token proves about its bearer.
type Identity struct {
	ID       string
	Email    string
	Username string
}

type TokenManager struct {
	secret   []byte
	duration time.Duration
}

func NewTokenManager(secret string, duration time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), duration: duration}
}

// GenerateToken creates a signed HS256 token for identity.
func (m *TokenManager) GenerateToken(identity Identity) (string, error) {
	now := time.Now()
	claims := &CustomClaims{
		ID:       identity.ID,
		Email:    identity.Email,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrTokenGeneration, err)
	}
	return signed, nil
}

// ValidateToken checks signature, expiry and the presence of an email.
// Every failure is reported as errors.ErrUnauthorized.
func (m *TokenManager) ValidateToken(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", errors.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("%w: invalid token", errors.ErrUnauthorized)
	}
	if claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: email is missing", errors.ErrUnauthorized)
	}
	return Identity{ID: claims.ID, Email: claims.Email, Username: claims.Username}, nil
}
