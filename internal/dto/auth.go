package dto

import "time"

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email      string `json:"email" binding:"required,handle_email"`
	Credential string `json:"credential" binding:"required"`
}

// GoogleLoginRequest carries an ID token obtained by the client from Google sign-in.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	AccountResponse
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
