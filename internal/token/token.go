package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is how long an issued token stays valid.
const TTL = time.Hour

var ErrInvalid = errors.New("invalid token")

// Claims carries the caller's email, the only identity this system knows.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a new HS256 token for the given email, expiring after TTL.
func Issue(secret []byte, email string) (string, error) {
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify parses and validates a token string, returning its claims.
func Verify(secret []byte, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
