package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/noteet/internal/models"
	"github.com/Skotchmaster/noteet/internal/mykafka"
	"github.com/Skotchmaster/noteet/internal/repo"
	"github.com/Skotchmaster/noteet/pkg/hash"
	"github.com/Skotchmaster/noteet/pkg/logging"
	"github.com/Skotchmaster/noteet/pkg/tokens"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

// TokenStore holds the issued pairs. ConsumeRefreshToken must remove the
// pair and report whether this call removed it in one atomic step.
type TokenStore interface {
	SaveTokenPair(ctx context.Context, access, refresh string) error
	ConsumeRefreshToken(ctx context.Context, refresh string) (bool, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SignupInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

type AuthService struct {
	Users  UserStore
	Tokens TokenStore
	Issuer *tokens.Issuer
	Events EventPublisher

	now func() time.Time
}

func NewAuthService(users UserStore, tokenStore TokenStore, issuer *tokens.Issuer, events EventPublisher) *AuthService {
	return &AuthService{
		Users:  users,
		Tokens: tokenStore,
		Issuer: issuer,
		Events: events,
		now:    time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	if blank(in.Email) || blank(in.FirstName) || blank(in.LastName) || in.Password == "" {
		return nil, newError(ErrValidation, "email, firstName, lastName and password are required")
	}

	_, err := s.Users.FindUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		l.Warn("signup_error", "status", 400, "reason", "email already registered")
		return nil, newError(ErrConflict, "already exists")
	case !errors.Is(err, repo.ErrNotFound):
		l.Error("signup_error", "status", 500, "reason", "cannot look up user", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Email,
		PasswordHash: pwHash,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("signup_error", "status", 400, "reason", "email registered concurrently")
			return nil, wrapError(ErrConflict, "already exists", err)
		}
		l.Error("signup_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUsers, "user_signed_up", user.ID, uuid.Nil)
	l.Info("signup_success", "user_id", user.ID.String())
	return pair, nil
}

// Login issues a fresh pair. Pairs issued earlier stay redeemable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if blank(email) || password == "" {
		return nil, newError(ErrValidation, "email and password are required")
	}

	user, err := s.Users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_error", "status", 400, "reason", "unknown email")
			return nil, wrapError(ErrNotFound, "not found", err)
		}
		l.Error("login_error", "status", 500, "reason", "cannot look up user", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_error", "status", 400, "reason", "password mismatch", "user_id", user.ID.String())
		return nil, newError(ErrInvalidCredentials, "invalid credentials!")
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUsers, "user_logged_in", user.ID, uuid.Nil)
	l.Info("login_success", "user_id", user.ID.String())
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The old pair is
// consumed before anything else happens, so a token is redeemable once
// even when requests race on it. The old access token is left to expire.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if refreshToken == "" {
		return nil, newError(ErrValidation, "refresh token not provided!")
	}

	consumed, err := s.Tokens.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		l.Error("refresh_error", "status", 500, "reason", "cannot consume refresh token", "error", err)
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}
	if !consumed {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token unknown or already used")
		return nil, newError(ErrUnauthorized, "refresh token expired!")
	}

	claims, err := s.Issuer.VerifyRefresh(refreshToken)
	if err != nil {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token does not verify", "error", err)
		return nil, wrapError(ErrUnauthorized, "refresh token expired!", err)
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token carries a bad id", "error", err)
		return nil, wrapError(ErrUnauthorized, "refresh token expired!", err)
	}

	pair, err := s.issuePair(ctx, userID)
	if err != nil {
		l.Error("refresh_error", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	s.publish(ctx, mykafka.TopicUsers, "token_refreshed", userID, uuid.Nil)
	l.Info("refresh_success", "user_id", userID.String())
	return pair, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, wrapError(ErrNotFound, "not found", err)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, err := s.Issuer.IssueAccess(userID.String())
	if err != nil {
		return nil, err
	}
	refresh, err := s.Issuer.IssueRefresh(userID.String())
	if err != nil {
		return nil, err
	}
	if err := s.Tokens.SaveTokenPair(ctx, access, refresh); err != nil {
		return nil, fmt.Errorf("save token pair: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) publish(ctx context.Context, topic, eventType string, userID, noteID uuid.UUID) {
	publishEvent(ctx, s.Events, s.now, topic, eventType, userID, noteID)
}

// publishEvent is best effort: a broker failure is logged, never returned.
func publishEvent(ctx context.Context, p EventPublisher, now func() time.Time, topic, eventType string, userID, noteID uuid.UUID) {
	if p == nil {
		return
	}
	ev := mykafka.Event{Type: eventType, UserID: userID.String(), At: now().UTC()}
	if noteID != uuid.Nil {
		ev.NoteID = noteID.String()
	}
	if err := p.PublishEvent(ctx, topic, userID.String(), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_error", "topic", topic, "type", eventType, "error", err)
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
