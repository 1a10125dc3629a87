package domain

import "time"

// Book is the catalogue aggregate. Stock is the number of physical or
// licensed copies; availability is derived, never stored.
type Book struct {
	ID              string
	ISBN            string
	Title           string
	Description     string
	Editor          string
	PublicationDate time.Time
	Category        string
	Language        string
	PageCount       int
	Published       bool
	Stock           int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
