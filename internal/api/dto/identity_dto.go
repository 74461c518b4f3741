package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	UserType string `json:"user_type"`
}

// LoginRequest payload for sign-in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserProfile `json:"user"`
}

// UserProfile is the public view of a user document.
type UserProfile struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	FullName    string       `json:"full_name"`
	UserType    string       `json:"user_type"`
	Memberships []Membership `json:"memberships"`
}

// Membership is the public view of an institution attachment.
type Membership struct {
	InstitutionID string `json:"institution_id"`
	Role          string `json:"role"`
	IsManager     bool   `json:"is_manager"`
}
