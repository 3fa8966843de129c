package dto

import "time"

type UserOutput struct {
	ID         int       `json:"id"`
	Identifier string    `json:"identifier"`
	Email      string    `json:"email"`
	UserType   string    `json:"user_type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type PrincipalOutput struct {
	UserID   int    `json:"user_id"`
	UserType string `json:"user_type"`
	Subject  string `json:"subject"`
}
