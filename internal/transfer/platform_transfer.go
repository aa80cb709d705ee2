package transfer

import "time"

// ExchangeResult is the parsed outcome of trading an authorization code
// for tokens plus the platform-side identity of the connected account.
type ExchangeResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string
	Username     string
}

// SocialAccountInfo is the account view model handed to the frontend.
type SocialAccountInfo struct {
	ID        int64     `json:"id"`
	Platform  string    `json:"platform"`
	Username  string    `json:"platform_username"`
	ExpiresAt time.Time `json:"expires_at"`
	Connected bool      `json:"connected"`
}
