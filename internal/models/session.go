package models

import (
	"time"

	"github.com/google/uuid"
)

// Session holds conversational state for one (tenant, user, channel) tuple.
// Rows logically expire at ExpiresAt; the background reaper deactivates
// them but readers must not rely on that having happened.
type Session struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	TenantID  uuid.UUID         `json:"tenant_id" db:"tenant_id"`
	SessionID uuid.UUID         `json:"session_id" db:"session_id"`
	UserID    string            `json:"user_id" db:"user_id"`
	Channel   string            `json:"channel" db:"channel"`
	Data      map[string]string `json:"data" db:"data"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at" db:"expires_at"`
	IsActive  bool              `json:"is_active" db:"is_active"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
