package dto

import "github.com/spec-kit/library-service/internal/domain"

// AuthorRequest payload for registering a contributor.
type AuthorRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthorResponse is the public view of an author.
type AuthorResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FromAuthor maps a domain author to its response shape.
func FromAuthor(author *domain.Author) AuthorResponse {
	return AuthorResponse{
		ID:        author.ID,
		FirstName: author.FirstName,
		LastName:  author.LastName,
	}
}

// BookAuthorsRequest replaces a book's author links.
type BookAuthorsRequest struct {
	AuthorIDs []string `json:"author_ids"`
}
