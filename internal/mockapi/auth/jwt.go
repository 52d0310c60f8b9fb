// Package auth issues and checks the tokens of the development API.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/stellarburgers/internal/common"
)

// BearerPrefix is prepended to every issued access token.
const BearerPrefix = "Bearer "

// Claims carries the standard claims and the id of the account.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// GenerateToken signs an HS256 access token for userID that expires after
// ttl. The result already carries BearerPrefix.
func GenerateToken(userID string, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return BearerPrefix + signed, nil
}

// GetUserIDFromToken verifies token and returns its user id. An expired
// token yields common.ErrTokenExpired, anything else unusable yields
// common.ErrInvalidToken.
func GetUserIDFromToken(token string, secretKey []byte) (string, error) {
	raw, ok := strings.CutPrefix(token, BearerPrefix)
	if !ok {
		return "", common.ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", common.ErrTokenExpired
	case err != nil, !parsed.Valid, claims.UserID == "":
		return "", common.ErrInvalidToken
	}
	return claims.UserID, nil
}

// RandomToken returns size random bytes, hex encoded. It backs refresh
// tokens and password reset codes.
func RandomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
