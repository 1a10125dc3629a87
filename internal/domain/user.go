package domain

import "time"

// Role distinguishes regular members from catalogue administrators.
type Role string

const (
	RoleMember Role = "U"
	RoleAdmin  Role = "A"
)

// User is the domain model for library members.
//
// Active defaults to false until the account is activated; unsubscribing
// flips it back to false (soft delete, records are never removed).
type User struct {
	ID                 string
	FirstName          string
	LastName           string
	Email              string
	PasswordHash       string
	Role               Role
	Birthdate          *time.Time
	Active             bool
	SecurityQuestion   *SecurityQuestion
	SecurityAnswerHash string
	PasswordUpdatedAt  *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FullName returns the display name used in notifications.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasSecurityChallenge reports whether the account carries both a question
// tag and a stored answer hash.
func (u *User) HasSecurityChallenge() bool {
	return u.SecurityQuestion != nil && u.SecurityAnswerHash != ""
}
