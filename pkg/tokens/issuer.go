package tokens

import (
	"bytes"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AccessTTL = 15 * time.Minute

// Issuer mints and verifies the access/refresh pair. The two secrets must
// differ so a token of one kind never verifies as the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewIssuer(accessSecret, refreshSecret []byte) (*Issuer, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, fmt.Errorf("%w: secrets must not be empty", ErrConfig)
	}
	if bytes.Equal(accessSecret, refreshSecret) {
		return nil, fmt.Errorf("%w: access and refresh secrets must differ", ErrConfig)
	}
	return &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		now:           time.Now,
	}, nil
}

// WithClock replaces the time source used for issuing and verifying.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

func (i *Issuer) IssueAccess(userID string) (string, error) {
	now := i.now()
	claims := AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

func (i *Issuer) IssueRefresh(userID string) (string, error) {
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(i.now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return token, nil
}

func (i *Issuer) VerifyAccess(token string) (*AccessClaims, error) {
	return AccessClaimsFromToken(token, i.accessSecret, jwt.WithTimeFunc(i.now))
}

func (i *Issuer) VerifyRefresh(token string) (*RefreshClaims, error) {
	return RefreshClaimsFromToken(token, i.refreshSecret, jwt.WithTimeFunc(i.now))
}
