package domain

import "time"

// ReservationStatus enumerates reservation lifecycle states.
//
// RETURNED is part of the status domain for a future lending-return flow;
// no current operation produces it.
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusReturned  ReservationStatus = "RETURNED"
)

// Reservation records a hold of one copy of a book by a user. Created only
// by admission, mutated only by cancellation, never deleted.
type Reservation struct {
	ID         string
	UserID     string
	BookID     string
	ReservedAt time.Time
	Status     ReservationStatus
}
