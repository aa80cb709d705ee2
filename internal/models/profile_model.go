package models

import "time"

// Profile is the public identity of a user. Its id equals the owning
// user's id, one row per user, created at sign-up.
type Profile struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FullName  string    `db:"full_name" json:"full_name"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	Website   string    `db:"website" json:"website"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)
