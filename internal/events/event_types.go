package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered       EventType = "user_registered"
	EventUserActivated        EventType = "user_activated"
	EventUserUnsubscribed     EventType = "user_unsubscribed"
	EventActivationRequested  EventType = "activation_requested"
	EventPasswordChanged      EventType = "password_changed"
	EventReservationCreated   EventType = "reservation_created"
	EventReservationCancelled EventType = "reservation_cancelled"
)

// Event represents a domain event emitted by the façades.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccountPayload carries the recipient fields for account mail.
type AccountPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ActivationRequestedPayload carries what the activation mail needs.
type ActivationRequestedPayload struct {
	Email  string `json:"email"`
	UserID string `json:"user_id"`
}

// ReservationPayload carries the recipient and book fields for
// reservation mail.
type ReservationPayload struct {
	ReservationID string `json:"reservation_id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	BookTitle     string `json:"book_title"`
}
