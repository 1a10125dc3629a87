package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
)

// BookService covers catalogue CRUD and search. No invariants here beyond
// existence checks; the rules live in the reservation façade.
type BookService struct {
	books   repository.BookRepository
	authors repository.AuthorRepository
}

// NewBookService constructs the service.
func NewBookService(books repository.BookRepository, authors repository.AuthorRepository) *BookService {
	return &BookService{books: books, authors: authors}
}

// Save creates or updates a catalogue entry.
func (s *BookService) Save(ctx context.Context, book *domain.Book) error {
	err := s.books.Save(ctx, book)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrBookNotFound
	}
	return err
}

// Delete removes a catalogue entry.
func (s *BookService) Delete(ctx context.Context, id string) error {
	err := s.books.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrBookNotFound
	}
	return err
}

// Get loads a book by id.
func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrBookNotFound
	}
	return book, err
}

// GetByISBN loads a book by ISBN, case-insensitive.
func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	book, err := s.books.GetByISBN(ctx, isbn)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrBookNotFound
	}
	return book, err
}

// List returns the whole catalogue.
func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}

// SearchByTitle returns books whose title contains the term.
func (s *BookService) SearchByTitle(ctx context.Context, title string) ([]domain.Book, error) {
	return s.books.SearchByTitle(ctx, title)
}

// SearchByTitleOrDescription matches either field.
func (s *BookService) SearchByTitleOrDescription(ctx context.Context, title, description string) ([]domain.Book, error) {
	return s.books.SearchByTitleOrDescription(ctx, title, description)
}

// ListByPublished filters on the published flag.
func (s *BookService) ListByPublished(ctx context.Context, published bool) ([]domain.Book, error) {
	return s.books.ListByPublished(ctx, published)
}

// ListByYearRange returns books published between Jan 1 of startYear and
// Dec 31 of endYear.
func (s *BookService) ListByYearRange(ctx context.Context, startYear, endYear int) ([]domain.Book, error) {
	from := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(endYear, time.December, 31, 23, 59, 59, 0, time.UTC)
	return s.books.ListByPublicationDateRange(ctx, from, to)
}

// ListByAuthor returns the author's books.
func (s *BookService) ListByAuthor(ctx context.Context, authorID string) ([]domain.Book, error) {
	if _, err := s.authors.GetByID(ctx, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, err
	}
	return s.books.ListByAuthor(ctx, authorID)
}

// Authors returns a book's contributors.
func (s *BookService) Authors(ctx context.Context, bookID string) ([]domain.Author, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return s.authors.ListByBook(ctx, bookID)
}

// SetAuthors replaces a book's author links. Every referenced author must
// exist.
func (s *BookService) SetAuthors(ctx context.Context, bookID string, authorIDs []string) error {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrBookNotFound
		}
		return err
	}
	for _, authorID := range authorIDs {
		if _, err := s.authors.GetByID(ctx, authorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.ErrAuthorNotFound
			}
			return err
		}
	}
	return s.books.SetAuthors(ctx, bookID, authorIDs)
}
