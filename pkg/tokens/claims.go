package tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpiredOrInvalid = errors.New("access token expired or invalid")
	ErrInvalid          = errors.New("refresh token invalid")
	ErrConfig           = errors.New("invalid token configuration")
)

// AccessClaims is the payload of an access token. UserID travels as "id".
type AccessClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. It has no expiry;
// the jti keeps two tokens minted in the same second distinct.
type RefreshClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte, opts ...jwt.ParserOption) (*AccessClaims, error) {
	var claims AccessClaims
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return accessSecret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExpiredOrInvalid, err)
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, ErrExpiredOrInvalid
	}
	return &claims, nil
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte, opts ...jwt.ParserOption) (*RefreshClaims, error) {
	var claims RefreshClaims
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return refreshSecret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, ErrInvalid
	}
	return &claims, nil
}
