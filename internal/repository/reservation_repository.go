package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/library-service/internal/domain"
)

// ReservationRepository encapsulates reservation-ledger persistence.
// Reservations are never deleted; status moves one way from ACTIVE.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	Update(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	CountActiveByUserAndBook(ctx context.Context, userID, bookID string) (int, error)
	CountActiveByUser(ctx context.Context, userID string) (int, error)
	CountActiveByBook(ctx context.Context, bookID string) (int, error)
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Reservation, error)
	ListActiveByBook(ctx context.Context, bookID string) ([]domain.Reservation, error)
}

type reservationRepository struct {
	pool *pgxpool.Pool
}

// NewReservationRepository instantiates repository.
func NewReservationRepository(pool *pgxpool.Pool) ReservationRepository {
	return &reservationRepository{pool: pool}
}

const reservationColumns = `id, user_id, book_id, reserved_at, status`

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	const query = `
        INSERT INTO reservations (user_id, book_id, reserved_at, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		reservation.UserID,
		reservation.BookID,
		reservation.ReservedAt,
		reservation.Status,
	).Scan(&reservation.ID)
}

func (r *reservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	const query = `UPDATE reservations SET status=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, reservation.Status, reservation.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var reservation domain.Reservation
	if err := r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.BookID,
		&reservation.ReservedAt,
		&reservation.Status,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) CountActiveByUserAndBook(ctx context.Context, userID, bookID string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id=$1 AND book_id=$2 AND status=$3`,
		userID, bookID, domain.ReservationStatusActive)
}

func (r *reservationRepository) CountActiveByUser(ctx context.Context, userID string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id=$1 AND status=$2`,
		userID, domain.ReservationStatusActive)
}

func (r *reservationRepository) CountActiveByBook(ctx context.Context, bookID string) (int, error) {
	return r.count(ctx,
		`SELECT COUNT(*) FROM reservations WHERE book_id=$1 AND status=$2`,
		bookID, domain.ReservationStatusActive)
}

func (r *reservationRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	return r.fetchMany(ctx,
		`SELECT `+reservationColumns+` FROM reservations
         WHERE user_id=$1 AND status=$2 ORDER BY reserved_at DESC`,
		userID, domain.ReservationStatusActive)
}

func (r *reservationRepository) ListActiveByBook(ctx context.Context, bookID string) ([]domain.Reservation, error) {
	return r.fetchMany(ctx,
		`SELECT `+reservationColumns+` FROM reservations
         WHERE book_id=$1 AND status=$2 ORDER BY reserved_at DESC`,
		bookID, domain.ReservationStatusActive)
}

func (r *reservationRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reservationRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reservation
	for rows.Next() {
		var reservation domain.Reservation
		if err := rows.Scan(
			&reservation.ID,
			&reservation.UserID,
			&reservation.BookID,
			&reservation.ReservedAt,
			&reservation.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, reservation)
	}
	return result, rows.Err()
}
