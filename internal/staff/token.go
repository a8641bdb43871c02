package staff

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bekzodm/oshxona/internal/orders"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const tokenTTL = 12 * time.Hour

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func IssueToken(secret []byte, st Staff) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: string(st.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   st.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	return t.SignedString(secret)
}

func ParseToken(secret []byte, raw string) (orders.Actor, error) {
	var c claims
	t, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !t.Valid {
		return orders.Actor{}, ErrInvalidToken
	}
	role := orders.Role(c.Role)
	if c.Subject == "" || !role.Valid() {
		return orders.Actor{}, ErrInvalidToken
	}
	return orders.Actor{ID: c.Subject, Role: role}, nil
}
