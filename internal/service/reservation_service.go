package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/config"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/repository"
)

// ReservationService is the reservation façade: admission, cancellation,
// listing and the derived availability query.
type ReservationService struct {
	users        repository.UserRepository
	books        repository.BookRepository
	reservations repository.ReservationRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	quota        int
	locks        *keyedLocks
	now          func() time.Time
}

// ReservationDependencies bundles collaborators for the façade.
type ReservationDependencies struct {
	UserRepo        repository.UserRepository
	BookRepo        repository.BookRepository
	ReservationRepo repository.ReservationRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewReservationService constructs the service.
func NewReservationService(cfg config.Config, deps ReservationDependencies) *ReservationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	quota := cfg.Reservation.MaxActivePerUser
	if quota <= 0 {
		quota = 3
	}
	return &ReservationService{
		users:        deps.UserRepo,
		books:        deps.BookRepo,
		reservations: deps.ReservationRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		quota:        quota,
		locks:        newKeyedLocks(),
		now:          time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

// Reserve admits a reservation of one copy of the book for the user
// identified by email. Each precondition fails fast with its own error
// kind; the counting checks and the insert run under the book and user
// locks so the quota and stock invariants hold under concurrency.
func (s *ReservationService) Reserve(ctx context.Context, bookID, email string) (*domain.Reservation, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrAccountNotActive
	}

	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}

	unlock := s.locks.lockPair("book:"+book.ID, "user:"+user.ID)
	defer unlock()

	duplicate, err := s.reservations.CountActiveByUserAndBook(ctx, user.ID, book.ID)
	if err != nil {
		return nil, err
	}
	if duplicate >= 1 {
		return nil, domain.ErrAlreadyReserved
	}

	active, err := s.reservations.CountActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if active >= s.quota {
		return nil, domain.ErrQuotaExceeded
	}

	reserved, err := s.reservations.CountActiveByBook(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	if book.Stock-reserved <= 0 {
		return nil, domain.ErrOutOfStock
	}

	reservation := &domain.Reservation{
		UserID:     user.ID,
		BookID:     book.ID,
		ReservedAt: s.now(),
		Status:     domain.ReservationStatusActive,
	}
	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}

	// Notification failure never rolls back the reservation.
	s.publish(ctx, events.Event{
		Type:   events.EventReservationCreated,
		UserID: user.ID,
		Payload: events.ReservationPayload{
			ReservationID: reservation.ID,
			Email:         user.Email,
			FirstName:     user.FirstName,
			LastName:      user.LastName,
			BookTitle:     book.Title,
		},
	})
	return reservation, nil
}

// Cancel moves the reservation to CANCELLED. Cancelling an already
// cancelled reservation re-confirms the status; the effect is idempotent.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) (*domain.Reservation, error) {
	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, err
	}

	// The book lock keeps the cancel from being lost against a concurrent
	// availability read in admission.
	unlock := s.locks.lock("book:" + reservation.BookID)
	defer unlock()

	reservation.Status = domain.ReservationStatusCancelled
	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventReservationCancelled,
		UserID: reservation.UserID,
		Payload: events.ReservationPayload{
			ReservationID: reservation.ID,
		},
	})
	return reservation, nil
}

// ListForUser returns the user's active reservations.
func (s *ReservationService) ListForUser(ctx context.Context, email string) ([]domain.Reservation, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return s.reservations.ListActiveByUser(ctx, user.ID)
}

// ListForBook returns a book's active reservations.
func (s *ReservationService) ListForBook(ctx context.Context, bookID string) ([]domain.Reservation, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrBookNotFound
		}
		return nil, err
	}
	return s.reservations.ListActiveByBook(ctx, bookID)
}

// AvailableStock recomputes stock minus active reservations on every call.
// The reported value is never negative.
func (s *ReservationService) AvailableStock(ctx context.Context, bookID string) (int, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, domain.ErrBookNotFound
		}
		return 0, err
	}
	reserved, err := s.reservations.CountActiveByBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	available := book.Stock - reserved
	if available < 0 {
		available = 0
	}
	return available, nil
}

func (s *ReservationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
