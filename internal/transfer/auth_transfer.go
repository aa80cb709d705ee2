package transfer

import "github.com/postdeck/postdeck/internal/models"

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionInfo struct {
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile"`
}
