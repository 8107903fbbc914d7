package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/noteet/pkg/logging"
	"github.com/Skotchmaster/noteet/pkg/tokens"
)

const (
	msgNoCredentials = "Authentification credentials not provided"
	msgExpiredToken  = "Expired token"
)

type AccessVerifier interface {
	VerifyAccess(token string) (*tokens.AccessClaims, error)
}

type Gate struct {
	Verifier AccessVerifier
}

func NewGate(v AccessVerifier) *Gate {
	return &Gate{Verifier: v}
}

// RequireLogin admits requests carrying a valid bearer access token.
// No token is 401, a token that does not verify is 403.
func (g *Gate) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth.require_login")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("auth_error", "status", 401, "reason", "no bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, msgNoCredentials)
		}

		claims, err := g.Verifier.VerifyAccess(raw)
		if err != nil {
			l.Warn("auth_error", "status", 403, "reason", "access token rejected", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, msgExpiredToken)
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			l.Warn("auth_error", "status", 403, "reason", "access token carries a bad id", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, msgExpiredToken)
		}

		setUser(c, userID)
		return next(c)
	}
}
