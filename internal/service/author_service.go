package service

import (
	"context"
	"errors"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
)

// AuthorService covers contributor lookups. Like the catalogue, it carries
// no invariants beyond existence checks.
type AuthorService struct {
	authors repository.AuthorRepository
}

// NewAuthorService constructs the service.
func NewAuthorService(authors repository.AuthorRepository) *AuthorService {
	return &AuthorService{authors: authors}
}

// Create registers a new author.
func (s *AuthorService) Create(ctx context.Context, author *domain.Author) error {
	return s.authors.Create(ctx, author)
}

// Get loads an author by id.
func (s *AuthorService) Get(ctx context.Context, id string) (*domain.Author, error) {
	author, err := s.authors.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrAuthorNotFound
	}
	return author, err
}

// Search looks authors up by name. First name alone matches
// case-insensitively; with a last name both must match exactly.
func (s *AuthorService) Search(ctx context.Context, firstName, lastName string) ([]domain.Author, error) {
	if lastName == "" {
		return s.authors.ListByFirstName(ctx, firstName)
	}
	return s.authors.ListByName(ctx, firstName, lastName)
}
