package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-service/internal/domain"
)

// AuthorRepository encapsulates author persistence. The author_book link
// table is read here and written through BookRepository.SetAuthors.
type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) error
	GetByID(ctx context.Context, id string) (*domain.Author, error)
	ListByFirstName(ctx context.Context, firstName string) ([]domain.Author, error)
	ListByName(ctx context.Context, firstName, lastName string) ([]domain.Author, error)
	ListByBook(ctx context.Context, bookID string) ([]domain.Author, error)
}

type authorRepository struct {
	pool *pgxpool.Pool
}

// NewAuthorRepository instantiates repository.
func NewAuthorRepository(pool *pgxpool.Pool) AuthorRepository {
	return &authorRepository{pool: pool}
}

const authorColumns = `id, first_name, last_name`

func (r *authorRepository) Create(ctx context.Context, author *domain.Author) error {
	const query = `
        INSERT INTO authors (first_name, last_name)
        VALUES ($1,$2)
        RETURNING id`
	return r.pool.QueryRow(ctx, query, author.FirstName, author.LastName).Scan(&author.ID)
}

func (r *authorRepository) GetByID(ctx context.Context, id string) (*domain.Author, error) {
	var author domain.Author
	if err := r.pool.QueryRow(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id=$1`, id).Scan(
		&author.ID,
		&author.FirstName,
		&author.LastName,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &author, nil
}

// ListByFirstName matches the first name case-insensitively.
func (r *authorRepository) ListByFirstName(ctx context.Context, firstName string) ([]domain.Author, error) {
	return r.fetchMany(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE LOWER(first_name)=LOWER($1) ORDER BY last_name`,
		firstName)
}

// ListByName matches both names exactly.
func (r *authorRepository) ListByName(ctx context.Context, firstName, lastName string) ([]domain.Author, error) {
	return r.fetchMany(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE first_name=$1 AND last_name=$2 ORDER BY id`,
		firstName, lastName)
}

func (r *authorRepository) ListByBook(ctx context.Context, bookID string) ([]domain.Author, error) {
	return r.fetchMany(ctx,
		`SELECT a.id, a.first_name, a.last_name
         FROM authors a
         JOIN author_book ab ON ab.author_id = a.id
         WHERE ab.book_id=$1
         ORDER BY a.last_name, a.first_name`,
		bookID)
}

func (r *authorRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Author, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Author
	for rows.Next() {
		var author domain.Author
		if err := rows.Scan(&author.ID, &author.FirstName, &author.LastName); err != nil {
			return nil, err
		}
		result = append(result, author)
	}
	return result, rows.Err()
}
