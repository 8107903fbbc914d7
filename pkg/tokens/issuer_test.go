package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()

	iss, err := NewIssuer([]byte("test-access-secret"), []byte("test-refresh-secret"))
	require.NoError(t, err)
	return iss
}

func TestNewIssuer_RejectsBadSecrets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		access  []byte
		refresh []byte
	}{
		{name: "empty access", access: nil, refresh: []byte("r")},
		{name: "empty refresh", access: []byte("a"), refresh: nil},
		{name: "same secret", access: []byte("same"), refresh: []byte("same")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			iss, err := NewIssuer(tt.access, tt.refresh)
			require.Error(t, err)
			assert.Nil(t, iss)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestIssuer_IssueAccess_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	iss := newTestIssuer(t).WithClock(func() time.Time { return issuedAt })
	userID := uuid.NewString()

	token, err := iss.IssueAccess(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := iss.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, issuedAt.Add(AccessTTL), claims.ExpiresAt.Time, time.Second)
}

func TestIssuer_VerifyAccess_ExpiresAfterFifteenMinutes(t *testing.T) {
	t.Parallel()

	start := time.Now()
	iss := newTestIssuer(t).WithClock(func() time.Time { return start })

	token, err := iss.IssueAccess("user-1")
	require.NoError(t, err)

	before := iss.WithClock(func() time.Time { return start.Add(AccessTTL - time.Minute) })
	_, err = before.VerifyAccess(token)
	require.NoError(t, err)

	after := iss.WithClock(func() time.Time { return start.Add(AccessTTL + time.Minute) })
	claims, err := after.VerifyAccess(token)
	require.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredOrInvalid)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestIssuer_IssueRefresh_NoExpiryAndUnique(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(t)

	first, err := iss.IssueRefresh("user-1")
	require.NoError(t, err)
	second, err := iss.IssueRefresh("user-1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	claims, err := iss.VerifyRefresh(first)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.Nil(t, claims.ExpiresAt)

	later := iss.WithClock(func() time.Time { return time.Now().Add(10 * 365 * 24 * time.Hour) })
	_, err = later.VerifyRefresh(first)
	require.NoError(t, err)
}

func TestIssuer_TokensAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(t)

	access, err := iss.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, err := iss.IssueRefresh("user-1")
	require.NoError(t, err)

	_, err = iss.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = iss.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrExpiredOrInvalid)
}

func TestIssuer_Verify_RejectsGarbageAndForeignAlgorithms(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(t)

	_, err := iss.VerifyAccess("not-a-valid-jwt")
	assert.ErrorIs(t, err, ErrExpiredOrInvalid)

	_, err = iss.VerifyRefresh("not-a-valid-jwt")
	assert.ErrorIs(t, err, ErrInvalid)

	claims := AccessClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = iss.VerifyAccess(unsigned)
	assert.ErrorIs(t, err, ErrExpiredOrInvalid)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-access-secret"))
	require.NoError(t, err)
	_, err = iss.VerifyAccess(hs512)
	assert.ErrorIs(t, err, ErrExpiredOrInvalid)
}

func TestIssuer_VerifyAccess_RequiresExpiry(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer(t)
	claims := AccessClaims{UserID: "user-1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-access-secret"))
	require.NoError(t, err)

	_, err = iss.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrExpiredOrInvalid)
}
