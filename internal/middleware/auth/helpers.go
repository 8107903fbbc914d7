package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/noteet/pkg/logging"
)

const UserIDKey = "user_id"

var ErrNoUser = errors.New("no authenticated user")

type ctxKey struct{}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func setUser(c echo.Context, id uuid.UUID) {
	c.Set(UserIDKey, id)

	ctx := context.WithValue(c.Request().Context(), ctxKey{}, id)
	ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", id.String()))
	c.SetRequest(c.Request().WithContext(ctx))
}

// UserID returns the identity RequireLogin stored on c.
func UserID(c echo.Context) (uuid.UUID, error) {
	if id, ok := c.Get(UserIDKey).(uuid.UUID); ok {
		return id, nil
	}
	return UserIDFromContext(c.Request().Context())
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	if id, ok := ctx.Value(ctxKey{}).(uuid.UUID); ok {
		return id, nil
	}
	return uuid.Nil, ErrNoUser
}
