package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login. The signed token handed to the client
// references it by Id so logging out revokes the token.
type Session struct {
	Id        string    `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
