package commands

import (
	"time"

	"school/backend/internal/auth"
	"school/backend/internal/repository/postgres/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// GenToken issues an access/refresh token pair signed with the shared key.
func GenToken(claims user.AuthClaims, jwtKey string) (string, string, error) {
	now := time.Now()

	accessClaims := auth.Claims{
		UserId: claims.ID,
		Role:   claims.Role,
		Type:   "access",
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(accessTokenTTL).Unix(),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(jwtKey))
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refreshClaims := auth.Claims{
		UserId: claims.ID,
		Role:   claims.Role,
		Type:   "refresh",
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(refreshTokenTTL).Unix(),
		},
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(jwtKey))
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return accessToken, refreshToken, nil
}

// VerifyTokens checks a token pair. The access token may be expired, the
// refresh token must still be valid.
func VerifyTokens(accessToken, refreshToken, jwtKey string) (*auth.Claims, *auth.Claims, error) {
	accessClaims, err := parseToken(accessToken, jwtKey, true)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing access token")
	}
	if accessClaims.Type != "access" {
		return nil, nil, errors.New("token is not an access token")
	}

	refreshClaims, err := parseToken(refreshToken, jwtKey, false)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parsing refresh token")
	}
	if refreshClaims.Type != "refresh" {
		return nil, nil, errors.New("token is not a refresh token")
	}

	if accessClaims.UserId != refreshClaims.UserId {
		return nil, nil, errors.New("token pair mismatch")
	}

	return accessClaims, refreshClaims, nil
}

func parseToken(tokenStr, jwtKey string, allowExpired bool) (*auth.Claims, error) {
	var claims auth.Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtKey), nil
	})
	if err != nil {
		ve, ok := err.(*jwt.ValidationError)
		if !ok || !allowExpired || ve.Errors != jwt.ValidationErrorExpired {
			return nil, err
		}
		return &claims, nil
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return &claims, nil
}
