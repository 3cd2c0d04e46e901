// Package auth provides authentication and authorization support.
package auth

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Roles recognised across the service.
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
)

type ctxKey int

// Key is used to store/retrieve a Claims value from a context.Context.
const Key ctxKey = 1

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.StandardClaims
}

// Authorized returns true if the claims carry one of the provided roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// Auth is used to authenticate clients.
type Auth struct {
	key []byte
}

func New(jwtKey string) *Auth {
	return &Auth{key: []byte(jwtKey)}
}

// ValidateToken recreates the Claims that were used to generate a token.
// It fails if the token was expired or not signed by us.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.key, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	return claims, nil
}
