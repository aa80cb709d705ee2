package models

import "time"

// SocialAccount is one OAuth-linked external account. Tokens are stored
// encrypted at rest. One row per (user, platform).
type SocialAccount struct {
	ID               int64     `db:"id" json:"id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	Platform         string    `db:"platform" json:"platform"`
	AccessToken      string    `db:"access_token" json:"-"`
	RefreshToken     string    `db:"refresh_token" json:"-"`
	ExpiresAt        time.Time `db:"expires_at" json:"expires_at"`
	PlatformUserID   string    `db:"platform_user_id" json:"platform_user_id"`
	PlatformUsername string    `db:"platform_username" json:"platform_username"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Connected is derived, not persisted: an account with an expired token
// shows up as disconnected.
func (sa *SocialAccount) Connected(now time.Time) bool {
	return sa.ExpiresAt.After(now)
}
