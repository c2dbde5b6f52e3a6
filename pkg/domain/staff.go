package domain

import (
	"time"

	"github.com/google/uuid"
)

// Staff is a gym employee allowed to manage members and plans.
type Staff struct {
	ID                  uuid.UUID
	Email               string
	Name                *string
	PasswordHash        string
	FailedLoginAttempts int
	LockedUntil         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsLocked returns true if the account is currently locked.
func (s *Staff) IsLocked() bool {
	if s.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*s.LockedUntil)
}

// TokenPair represents an issued access token.
type TokenPair struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}
