package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-service/internal/domain"
)

// BookRepository encapsulates catalogue persistence.
type BookRepository interface {
	Save(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	GetByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	List(ctx context.Context) ([]domain.Book, error)
	SearchByTitle(ctx context.Context, title string) ([]domain.Book, error)
	SearchByTitleOrDescription(ctx context.Context, title, description string) ([]domain.Book, error)
	ListByPublished(ctx context.Context, published bool) ([]domain.Book, error)
	ListByPublicationDateRange(ctx context.Context, from, to time.Time) ([]domain.Book, error)
	ListByAuthor(ctx context.Context, authorID string) ([]domain.Book, error)
	SetAuthors(ctx context.Context, bookID string, authorIDs []string) error
}

type bookRepository struct {
	pool *pgxpool.Pool
}

// NewBookRepository instantiates repository.
func NewBookRepository(pool *pgxpool.Pool) BookRepository {
	return &bookRepository{pool: pool}
}

const bookColumns = `id, isbn, title, description, editor, publication_date, category,
        language, page_count, published, stock, created_at, updated_at`

const prefixedBookColumns = `b.id, b.isbn, b.title, b.description, b.editor, b.publication_date,
        b.category, b.language, b.page_count, b.published, b.stock, b.created_at, b.updated_at`

// Save upserts: inserts when the book has no id yet, updates otherwise.
func (r *bookRepository) Save(ctx context.Context, book *domain.Book) error {
	if book.ID == "" {
		const query = `
            INSERT INTO books (isbn, title, description, editor, publication_date, category,
                               language, page_count, published, stock)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
            RETURNING id, created_at, updated_at`
		return r.pool.QueryRow(ctx, query,
			book.ISBN,
			book.Title,
			book.Description,
			book.Editor,
			book.PublicationDate,
			book.Category,
			book.Language,
			book.PageCount,
			book.Published,
			book.Stock,
		).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	}

	const query = `
        UPDATE books SET isbn=$1, title=$2, description=$3, editor=$4, publication_date=$5,
            category=$6, language=$7, page_count=$8, published=$9, stock=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		book.ISBN,
		book.Title,
		book.Description,
		book.Editor,
		book.PublicationDate,
		book.Category,
		book.Language,
		book.PageCount,
		book.Published,
		book.Stock,
		book.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	return r.fetchSingle(ctx, `SELECT `+bookColumns+` FROM books WHERE id=$1`, id)
}

func (r *bookRepository) GetByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	return r.fetchSingle(ctx, `SELECT `+bookColumns+` FROM books WHERE LOWER(isbn)=LOWER($1)`, isbn)
}

func (r *bookRepository) List(ctx context.Context) ([]domain.Book, error) {
	return r.fetchMany(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title`)
}

func (r *bookRepository) SearchByTitle(ctx context.Context, title string) ([]domain.Book, error) {
	return r.fetchMany(ctx,
		`SELECT `+bookColumns+` FROM books WHERE LOWER(title) LIKE LOWER($1) ORDER BY title`,
		"%"+title+"%")
}

func (r *bookRepository) SearchByTitleOrDescription(ctx context.Context, title, description string) ([]domain.Book, error) {
	return r.fetchMany(ctx,
		`SELECT `+bookColumns+` FROM books
         WHERE LOWER(title) LIKE LOWER($1) OR LOWER(description) LIKE LOWER($2)
         ORDER BY title`,
		"%"+title+"%", "%"+description+"%")
}

func (r *bookRepository) ListByPublished(ctx context.Context, published bool) ([]domain.Book, error) {
	return r.fetchMany(ctx, `SELECT `+bookColumns+` FROM books WHERE published=$1 ORDER BY title`, published)
}

func (r *bookRepository) ListByPublicationDateRange(ctx context.Context, from, to time.Time) ([]domain.Book, error) {
	return r.fetchMany(ctx,
		`SELECT `+bookColumns+` FROM books WHERE publication_date BETWEEN $1 AND $2 ORDER BY publication_date`,
		from, to)
}

func (r *bookRepository) ListByAuthor(ctx context.Context, authorID string) ([]domain.Book, error) {
	return r.fetchMany(ctx,
		`SELECT `+prefixedBookColumns+`
         FROM books b
         JOIN author_book ab ON ab.book_id = b.id
         WHERE ab.author_id=$1
         ORDER BY b.title`,
		authorID)
}

// SetAuthors replaces the book's author links atomically.
func (r *bookRepository) SetAuthors(ctx context.Context, bookID string, authorIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM author_book WHERE book_id=$1`, bookID); err != nil {
		return err
	}
	for _, authorID := range authorIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO author_book (author_id, book_id) VALUES ($1,$2)`,
			authorID, bookID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *bookRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Book, error) {
	var book domain.Book
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&book.ID,
		&book.ISBN,
		&book.Title,
		&book.Description,
		&book.Editor,
		&book.PublicationDate,
		&book.Category,
		&book.Language,
		&book.PageCount,
		&book.Published,
		&book.Stock,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Book, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Book
	for rows.Next() {
		var book domain.Book
		if err := rows.Scan(
			&book.ID,
			&book.ISBN,
			&book.Title,
			&book.Description,
			&book.Editor,
			&book.PublicationDate,
			&book.Category,
			&book.Language,
			&book.PageCount,
			&book.Published,
			&book.Stock,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, book)
	}
	return result, rows.Err()
}
