package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ListByBirthdateRange(_ context.Context, from, to time.Time) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.Birthdate == nil {
			continue
		}
		if user.Birthdate.Before(from) || user.Birthdate.After(to) {
			continue
		}
		result = append(result, *user)
	}
	return result, nil
}

type fakeBookRepo struct {
	mu    sync.Mutex
	books map[string]*domain.Book
	links map[string][]string
	seq   int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books: make(map[string]*domain.Book),
		links: make(map[string][]string),
	}
}

func (r *fakeBookRepo) Save(_ context.Context, book *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if book.ID == "" {
		r.seq++
		book.ID = fmt.Sprintf("book-%d", r.seq)
	}
	copied := *book
	r.books[book.ID] = &copied
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) GetByID(_ context.Context, id string) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *book
	return &copied, nil
}

func (r *fakeBookRepo) GetByISBN(_ context.Context, isbn string) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, book := range r.books {
		if strings.EqualFold(book.ISBN, isbn) {
			copied := *book
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeBookRepo) List(_ context.Context) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Book, 0, len(r.books))
	for _, book := range r.books {
		result = append(result, *book)
	}
	return result, nil
}

func (r *fakeBookRepo) SearchByTitle(_ context.Context, title string) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Book
	for _, book := range r.books {
		if strings.Contains(strings.ToLower(book.Title), strings.ToLower(title)) {
			result = append(result, *book)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) SearchByTitleOrDescription(_ context.Context, title, description string) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Book
	for _, book := range r.books {
		if strings.Contains(strings.ToLower(book.Title), strings.ToLower(title)) ||
			strings.Contains(strings.ToLower(book.Description), strings.ToLower(description)) {
			result = append(result, *book)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) ListByPublished(_ context.Context, published bool) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Book
	for _, book := range r.books {
		if book.Published == published {
			result = append(result, *book)
		}
	}
	return result, nil
}

func (r *fakeBookRepo) ListByPublicationDateRange(_ context.Context, from, to time.Time) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Book
	for _, book := range r.books {
		if book.PublicationDate.Before(from) || book.PublicationDate.After(to) {
			continue
		}
		result = append(result, *book)
	}
	return result, nil
}

func (r *fakeBookRepo) ListByAuthor(_ context.Context, authorID string) ([]domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Book
	for bookID, authorIDs := range r.links {
		for _, id := range authorIDs {
			if id == authorID {
				if book, ok := r.books[bookID]; ok {
					result = append(result, *book)
				}
				break
			}
		}
	}
	return result, nil
}

func (r *fakeBookRepo) SetAuthors(_ context.Context, bookID string, authorIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[bookID] = append([]string(nil), authorIDs...)
	return nil
}

func (r *fakeBookRepo) authorIDsForBook(bookID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.links[bookID]...)
}

type fakeAuthorRepo struct {
	mu      sync.Mutex
	authors map[string]*domain.Author
	books   *fakeBookRepo
	seq     int
}

func newFakeAuthorRepo(books *fakeBookRepo) *fakeAuthorRepo {
	return &fakeAuthorRepo{authors: make(map[string]*domain.Author), books: books}
}

func (r *fakeAuthorRepo) Create(_ context.Context, author *domain.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if author.ID == "" {
		r.seq++
		author.ID = fmt.Sprintf("author-%d", r.seq)
	}
	copied := *author
	r.authors[author.ID] = &copied
	return nil
}

func (r *fakeAuthorRepo) GetByID(_ context.Context, id string) (*domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	author, ok := r.authors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *author
	return &copied, nil
}

func (r *fakeAuthorRepo) ListByFirstName(_ context.Context, firstName string) ([]domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Author
	for _, author := range r.authors {
		if strings.EqualFold(author.FirstName, firstName) {
			result = append(result, *author)
		}
	}
	return result, nil
}

func (r *fakeAuthorRepo) ListByName(_ context.Context, firstName, lastName string) ([]domain.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Author
	for _, author := range r.authors {
		if author.FirstName == firstName && author.LastName == lastName {
			result = append(result, *author)
		}
	}
	return result, nil
}

func (r *fakeAuthorRepo) ListByBook(_ context.Context, bookID string) ([]domain.Author, error) {
	ids := r.books.authorIDsForBook(bookID)
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Author
	for _, id := range ids {
		if author, ok := r.authors[id]; ok {
			result = append(result, *author)
		}
	}
	return result, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations []domain.Reservation
	seq          int
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{}
}

func (r *fakeReservationRepo) Create(_ context.Context, reservation *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reservation.ID == "" {
		r.seq++
		reservation.ID = fmt.Sprintf("reservation-%d", r.seq)
	}
	r.reservations = append(r.reservations, *reservation)
	return nil
}

func (r *fakeReservationRepo) Update(_ context.Context, reservation *domain.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reservations {
		if r.reservations[i].ID == reservation.ID {
			r.reservations[i] = *reservation
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeReservationRepo) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.reservations {
		if r.reservations[i].ID == id {
			copied := r.reservations[i]
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeReservationRepo) CountActiveByUserAndBook(_ context.Context, userID, bookID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for i := range r.reservations {
		res := &r.reservations[i]
		if res.UserID == userID && res.BookID == bookID && res.Status == domain.ReservationStatusActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeReservationRepo) CountActiveByUser(_ context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for i := range r.reservations {
		if r.reservations[i].UserID == userID && r.reservations[i].Status == domain.ReservationStatusActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeReservationRepo) CountActiveByBook(_ context.Context, bookID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for i := range r.reservations {
		if r.reservations[i].BookID == bookID && r.reservations[i].Status == domain.ReservationStatusActive {
			count++
		}
	}
	return count, nil
}

func (r *fakeReservationRepo) ListActiveByUser(_ context.Context, userID string) ([]domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Reservation
	for i := range r.reservations {
		if r.reservations[i].UserID == userID && r.reservations[i].Status == domain.ReservationStatusActive {
			result = append(result, r.reservations[i])
		}
	}
	return result, nil
}

func (r *fakeReservationRepo) ListActiveByBook(_ context.Context, bookID string) ([]domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Reservation
	for i := range r.reservations {
		if r.reservations[i].BookID == bookID && r.reservations[i].Status == domain.ReservationStatusActive {
			result = append(result, r.reservations[i])
		}
	}
	return result, nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.PasswordHistoryEntry
	seq     int
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.PasswordHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == "" {
		r.seq++
		entry.ID = fmt.Sprintf("history-%d", r.seq)
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListRecentByUser(_ context.Context, userID string, limit int) ([]domain.PasswordHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.PasswordHistoryEntry
	for i := len(r.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if r.entries[i].UserID == userID {
			result = append(result, r.entries[i])
		}
	}
	return result, nil
}

func (r *fakeHistoryRepo) DeleteOlderThanNewest(_ context.Context, userID string, keep int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := 0
	var trimmed []domain.PasswordHistoryEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].UserID == userID {
			if kept >= keep {
				continue
			}
			kept++
		}
		trimmed = append([]domain.PasswordHistoryEntry{r.entries[i]}, trimmed...)
	}
	r.entries = trimmed
	return nil
}

func (r *fakeHistoryRepo) countForUser(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for i := range r.entries {
		if r.entries[i].UserID == userID {
			count++
		}
	}
	return count
}

type fakeLimiter struct {
	mu      sync.Mutex
	allow   bool
	allows  int
	resets  int
	blocked []string
}

func newFakeLimiter(allow bool) *fakeLimiter {
	return &fakeLimiter{allow: allow}
}

func (l *fakeLimiter) Allow(_ context.Context, identifier string, _ time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allows++
	if !l.allow {
		l.blocked = append(l.blocked, identifier)
	}
	return l.allow, nil
}

func (l *fakeLimiter) Reset(_ context.Context, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resets++
	return nil
}

func (l *fakeLimiter) resetCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resets
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{}
}

func (d *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *fakeDispatcher) published(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
