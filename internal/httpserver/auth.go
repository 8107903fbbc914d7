package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/noteet/internal/middleware/auth"
	"github.com/Skotchmaster/noteet/internal/service"
	"github.com/Skotchmaster/noteet/internal/transport"
	"github.com/Skotchmaster/noteet/pkg/logging"
)

type AuthHTTP struct {
	Svc   *service.AuthService
	Notes *service.NoteService
}

// Signup godoc
//
//	@Summary		Sign up
//	@Description	Registers a user and returns a fresh access/refresh pair.
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		transport.SignupRequest		true	"New user"
//	@Success		200		{object}	transport.TokenPairResponse
//	@Failure		400		{object}	transport.ErrorResponse	"Empty request, invalid field or already exists"
//	@Router			/user/signup [post]
func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.signup")

	var req transport.SignupRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	pair, err := h.Svc.Signup(ctx, service.SignupInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.TokenPairResponse(*pair))
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Checks credentials and returns a fresh access/refresh pair. Earlier pairs stay valid.
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		transport.LoginRequest	true	"Credentials"
//	@Success		200		{object}	transport.TokenPairResponse
//	@Failure		400		{object}	transport.ErrorResponse	"Empty request, not found or invalid credentials"
//	@Router			/user/login [post]
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.TokenPairResponse(*pair))
}

// Token godoc
//
//	@Summary		Rotate tokens
//	@Description	Exchanges a refresh token for a new pair. Each refresh token can be exchanged once.
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		transport.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	transport.TokenPairResponse
//	@Failure		400		{object}	transport.ErrorResponse	"Empty request or refresh token not provided"
//	@Failure		401		{object}	transport.ErrorResponse	"Refresh token expired"
//	@Router			/user/token [post]
func (h *AuthHTTP) Token(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.token")

	var req transport.RefreshRequest
	if err := bindBody(c, &req); err != nil {
		l.Warn("token_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	pair, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.TokenPairResponse(*pair))
}

// Profile godoc
//
//	@Summary		Current user
//	@Description	Returns the caller's profile together with their notes, newest first.
//	@Tags			User
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	transport.ProfileResponse
//	@Failure		401	{object}	transport.ErrorResponse
//	@Failure		403	{object}	transport.ErrorResponse
//	@Router			/user [get]
func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentification credentials not provided")
	}

	user, err := h.Svc.Profile(ctx, userID)
	if err != nil {
		return err
	}
	notes, err := h.Notes.ListNotes(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transport.ProfileResponse{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Notes:     notes,
	})
}
