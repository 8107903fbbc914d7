package transport

import (
	"github.com/Skotchmaster/noteet/internal/models"
)

type SignupRequest struct {
	Email     string `json:"email"     validate:"required,email"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	Password  string `json:"password"  validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type NoteRequest struct {
	Value string `json:"value" validate:"required"`
	Color string `json:"color" validate:"required"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type ProfileResponse struct {
	Email     string        `json:"email"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Username  string        `json:"username"`
	Notes     []models.Note `json:"notes"`
}

type NotesResponse struct {
	Notes []models.Note `json:"notes"`
}

type MessageResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
