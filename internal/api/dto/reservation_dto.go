package dto

import (
	"time"

	"github.com/spec-kit/library-service/internal/domain"
)

// ReserveRequest payload for reservation admission.
type ReserveRequest struct {
	BookID string `json:"book_id"`
	Email  string `json:"email"`
}

// ReservationResponse is the public view of a reservation.
type ReservationResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BookID     string    `json:"book_id"`
	ReservedAt time.Time `json:"reserved_at"`
	Status     string    `json:"status"`
}

// FromReservation maps a domain reservation to its response shape.
func FromReservation(reservation *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:         reservation.ID,
		UserID:     reservation.UserID,
		BookID:     reservation.BookID,
		ReservedAt: reservation.ReservedAt,
		Status:     string(reservation.Status),
	}
}

// AvailabilityResponse reports derived stock for a book.
type AvailabilityResponse struct {
	BookID    string `json:"book_id"`
	Available int    `json:"available"`
}
