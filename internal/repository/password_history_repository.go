package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-service/internal/domain"
)

// PasswordHistoryRepository manages the bounded log of retired password
// hashes. Entries are pruned, never authenticated against.
type PasswordHistoryRepository interface {
	Create(ctx context.Context, entry *domain.PasswordHistoryEntry) error
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.PasswordHistoryEntry, error)
	DeleteOlderThanNewest(ctx context.Context, userID string, keep int) error
}

type passwordHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordHistoryRepository constructs repository.
func NewPasswordHistoryRepository(pool *pgxpool.Pool) PasswordHistoryRepository {
	return &passwordHistoryRepository{pool: pool}
}

func (r *passwordHistoryRepository) Create(ctx context.Context, entry *domain.PasswordHistoryEntry) error {
	const query = `
        INSERT INTO password_history (user_id, password_hash, created_at)
        VALUES ($1,$2,$3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.PasswordHash,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *passwordHistoryRepository) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domain.PasswordHistoryEntry, error) {
	const query = `
        SELECT id, user_id, password_hash, created_at
        FROM password_history WHERE user_id=$1
        ORDER BY created_at DESC, id DESC
        LIMIT $2`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PasswordHistoryEntry
	for rows.Next() {
		var entry domain.PasswordHistoryEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.PasswordHash, &entry.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// DeleteOlderThanNewest removes everything beyond the keep most recent
// entries for the user.
func (r *passwordHistoryRepository) DeleteOlderThanNewest(ctx context.Context, userID string, keep int) error {
	const query = `
        DELETE FROM password_history
        WHERE user_id=$1 AND id NOT IN (
            SELECT id FROM password_history
            WHERE user_id=$1
            ORDER BY created_at DESC, id DESC
            LIMIT $2
        )`
	_, err := r.pool.Exec(ctx, query, userID, keep)
	return err
}
