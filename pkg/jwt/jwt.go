package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the fields the API reads back from a token.
type Claims struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

// GenerateToken creates a new JWT for a given user ID.
func GenerateToken(secret string, userID uint, ttl time.Duration) (string, Claims, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(ttl),
	}
	registered := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ID:        claims.TokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, registered)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", Claims{}, err
	}
	return signed, claims, nil
}

// ParseToken verifies the signature and expiry of tokenString.
func ParseToken(secret, tokenString string) (Claims, error) {
	var registered jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &registered, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	userID, err := strconv.ParseUint(registered.Subject, 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("invalid subject: %w", err)
	}
	if registered.ID == "" {
		return Claims{}, errors.New("token has no id")
	}
	return Claims{
		UserID:    uint(userID),
		TokenID:   registered.ID,
		ExpiresAt: registered.ExpiresAt.Time,
	}, nil
}
