// Package auth issues and verifies the HS256 bearer tokens handed out on
// login. Claims carry decrypted PII so downstream consumers never need a
// second round trip to read who the caller is.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/piiguard/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload: {sub, email, name, iat, exp}.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Subject identifies who a token is issued for.
type Subject struct {
	UserID string
	Email  string
	Name   string
}

// GenerateToken signs a token for subject, issued at now and valid for
// validityDuration.
func GenerateToken(subject Subject, secretKey []byte, validityDuration time.Duration, now time.Time) (string, error) {
	now = now.Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: subject.Email,
		Name:  subject.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature (HS256 only) and expiry of tokenString.
// Expired tokens yield common.ErrTokenExpired; anything else that fails
// verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuedAt())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
