package dto

import "time"

// RegisterRequest payload for new members.
type RegisterRequest struct {
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            string     `json:"email"`
	Password         string     `json:"password"`
	Birthdate        *time.Time `json:"birthdate,omitempty"`
	SecurityQuestion string     `json:"security_question"`
	SecurityAnswer   string     `json:"security_answer"`
}

// LoginRequest payload for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse reports one of the three successful authentication states.
type LoginResponse struct {
	Outcome          string     `json:"outcome"`
	UserID           string     `json:"user_id"`
	SecurityQuestion string     `json:"security_question,omitempty"`
	Token            string     `json:"token,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// SecurityAnswerRequest payload for the secondary factor check.
type SecurityAnswerRequest struct {
	UserID string `json:"user_id"`
	Answer string `json:"answer"`
}

// ChangePasswordRequest payload for the authenticated entry point.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// RenewPasswordRequest payload for the challenged renewal flow.
type RenewPasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateProfileRequest payload; empty fields are left untouched.
type UpdateProfileRequest struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
}

// UserResponse is the public view of a member.
type UserResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Active    bool       `json:"active"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
}

// PasswordExpiryResponse reports rotation status for an account.
type PasswordExpiryResponse struct {
	Expired       bool  `json:"expired"`
	DaysRemaining int64 `json:"days_remaining"`
}
