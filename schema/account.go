package schema

import (
	"time"
)

type Account struct {
	ID           string    `json:"id" gorm:"primary_key"`
	Email        string    `json:"email" gorm:"type:varchar(320);unique_index;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Session struct {
	ID        string    `gorm:"primary_key"`
	AccountID string    `gorm:"index;not null"`
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"not null"`
}

// UserSession is the identity the flows read from the session store
type UserSession struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
