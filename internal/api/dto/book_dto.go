package dto

import (
	"time"

	"github.com/spec-kit/library-service/internal/domain"
)

// BookRequest payload for creating or updating a catalogue entry.
type BookRequest struct {
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Editor          string    `json:"editor"`
	PublicationDate time.Time `json:"publication_date"`
	Category        string    `json:"category"`
	Language        string    `json:"language"`
	PageCount       int       `json:"page_count"`
	Published       bool      `json:"published"`
	Stock           int       `json:"stock"`
}

// BookResponse is the public catalogue view including derived availability.
type BookResponse struct {
	ID              string    `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Editor          string    `json:"editor"`
	PublicationDate time.Time `json:"publication_date"`
	Category        string    `json:"category"`
	Language        string    `json:"language"`
	PageCount       int       `json:"page_count"`
	Published       bool      `json:"published"`
	Stock           int       `json:"stock"`
}

// FromBook maps a domain book to its response shape.
func FromBook(book *domain.Book) BookResponse {
	return BookResponse{
		ID:              book.ID,
		ISBN:            book.ISBN,
		Title:           book.Title,
		Description:     book.Description,
		Editor:          book.Editor,
		PublicationDate: book.PublicationDate,
		Category:        book.Category,
		Language:        book.Language,
		PageCount:       book.PageCount,
		Published:       book.Published,
		Stock:           book.Stock,
	}
}
