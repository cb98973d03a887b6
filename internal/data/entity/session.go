package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is issued by the portal's login flow; this service only reads it.
type Session struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	Role      string     `db:"role"`
	Token     uuid.UUID  `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
}
