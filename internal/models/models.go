package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	FirstName    string    `gorm:"not null"               json:"firstName"`
	LastName     string    `gorm:"not null"               json:"lastName"`
	Username     string    `gorm:"not null"               json:"username"`
	PasswordHash string    `gorm:"not null"               json:"-"`
}

// TokenPair is one issued, still redeemable access/refresh pair.
// The row is deleted when its refresh token is exchanged.
type TokenPair struct {
	ID           uint   `gorm:"primaryKey"            json:"-"`
	AccessToken  string `gorm:"not null"              json:"accessToken"`
	RefreshToken string `gorm:"uniqueIndex;not null"  json:"refreshToken"`
}

type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Value     string    `gorm:"not null"               json:"value"`
	Color     string    `gorm:"not null"               json:"color"`
	Owner     uuid.UUID `gorm:"type:uuid;index;not null" json:"owner"`
	CreatedAt time.Time `gorm:"index"                  json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (TokenPair) TableName() string {
	return "tokens"
}

func All() []any {
	return []any{&User{}, &TokenPair{}, &Note{}}
}
