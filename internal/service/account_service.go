package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/config"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/repository"
)

// AuthOutcome enumerates the three successful authentication states. A
// correct password never yields an error; it yields one of these.
type AuthOutcome string

const (
	AuthOutcomeSuccess          AuthOutcome = "SUCCESS"
	AuthOutcomeRenewalRequired  AuthOutcome = "RENEWAL_REQUIRED"
	AuthOutcomeSecurityQuestion AuthOutcome = "SECURITY_QUESTION_REQUIRED"
)

// AuthenticationResult reports the outcome of an authentication attempt.
// Token is populated only for AuthOutcomeSuccess.
type AuthenticationResult struct {
	Outcome          AuthOutcome
	UserID           string
	SecurityQuestion string
	Token            string
	TokenExpiresAt   time.Time
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	Birthdate        *time.Time
	SecurityQuestion *domain.SecurityQuestion
	SecurityAnswer   string
}

// ProfileUpdateInput carries the partial profile update payload; empty
// fields are left untouched.
type ProfileUpdateInput struct {
	FirstName string
	LastName  string
	Birthdate *time.Time
}

// LoginLimiter throttles authentication attempts per identifier. Satisfied
// by auth.LoginRateLimiter.
type LoginLimiter interface {
	Allow(ctx context.Context, identifier string, at time.Time) (bool, error)
	Reset(ctx context.Context, identifier string) error
}

// AccountService is the account façade: registration, activation,
// authentication and the credential lifecycle rules.
type AccountService struct {
	users       repository.UserRepository
	history     repository.PasswordHistoryRepository
	dispatcher  events.Dispatcher
	tokenMgr    *auth.TokenManager
	rateLimiter LoginLimiter
	logger      *zap.Logger

	bcryptCost    int
	expiration    time.Duration
	renewalMinLen int
	answerMaxLen  int
	now           func() time.Time
}

// AccountDependencies encapsulates collaborator requirements.
type AccountDependencies struct {
	UserRepo    repository.UserRepository
	HistoryRepo repository.PasswordHistoryRepository
	Dispatcher  events.Dispatcher
	RateLimiter LoginLimiter
	Logger      *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:         deps.UserRepo,
		history:       deps.HistoryRepo,
		dispatcher:    deps.Dispatcher,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		rateLimiter:   deps.RateLimiter,
		logger:        logger,
		bcryptCost:    cfg.Auth.BcryptCost,
		expiration:    cfg.Auth.PasswordExpiration(),
		renewalMinLen: cfg.Auth.RenewalMinLength,
		answerMaxLen:  cfg.Auth.SecurityAnswerMaxLength,
		now:           time.Now,
	}
}

// WithClock overrides the time source; used by tests.
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	s.now = now
	return s
}

// Register creates a new inactive account. All-or-nothing: validation runs
// before any write.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateUser
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if input.SecurityQuestion == nil {
		return nil, domain.ErrSecurityQuestionRequired
	}
	if input.SecurityAnswer == "" {
		return nil, domain.ErrSecurityAnswerRequired
	}
	// Length is checked on the plaintext answer, before hashing.
	if len([]rune(input.SecurityAnswer)) > s.answerMaxLen {
		return nil, domain.ErrSecurityAnswerTooLong
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Email:              input.Email,
		PasswordHash:       hash,
		Role:               domain.RoleMember,
		Birthdate:          input.Birthdate,
		Active:             false,
		SecurityQuestion:   input.SecurityQuestion,
		SecurityAnswerHash: auth.HashSecurityAnswer(input.SecurityAnswer),
		PasswordUpdatedAt:  &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.appendHistory(ctx, user.ID, hash); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.ActivationRequestedPayload{
			Email:  user.Email,
			UserID: user.ID,
		},
	})
	return user, nil
}

// Activate flips the account active. Re-activating an already-active
// account is an error, which also keeps the activated mail single-shot.
func (s *AccountService) Activate(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, asUserErr(err)
	}
	if user.Active {
		return nil, domain.ErrAccountAlreadyActive
	}
	user.Active = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserActivated,
		UserID: user.ID,
		Payload: events.AccountPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	})
	return user, nil
}

// SendActivationMail re-sends the activation link for a known email.
func (s *AccountService) SendActivationMail(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return asUserErr(err)
	}
	s.publish(ctx, events.Event{
		Type:   events.EventActivationRequested,
		UserID: user.ID,
		Payload: events.ActivationRequestedPayload{
			Email:  user.Email,
			UserID: user.ID,
		},
	})
	return nil
}

// Authenticate verifies credentials and decides which of the three
// successful outcomes applies. Wrong email and wrong password are
// indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*AuthenticationResult, error) {
	now := s.now()
	if s.rateLimiter != nil {
		if allowed, err := s.rateLimiter.Allow(ctx, email, now); err != nil {
			s.logger.Warn("login rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrAccountNotActive
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	// All three outcomes below are successful authentications; none of
	// them keeps counting toward the attempt limit.
	s.resetAttempts(ctx, email)

	if s.passwordExpired(user, now) {
		result := &AuthenticationResult{
			Outcome: AuthOutcomeRenewalRequired,
			UserID:  user.ID,
		}
		if user.SecurityQuestion != nil {
			result.SecurityQuestion = user.SecurityQuestion.Text()
		}
		return result, nil
	}

	if user.HasSecurityChallenge() {
		return &AuthenticationResult{
			Outcome:          AuthOutcomeSecurityQuestion,
			UserID:           user.ID,
			SecurityQuestion: user.SecurityQuestion.Text(),
		}, nil
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthenticationResult{
		Outcome:        AuthOutcomeSuccess,
		UserID:         user.ID,
		Token:          token,
		TokenExpiresAt: exp,
	}, nil
}

// VerifySecurityAnswer checks the secondary factor for the user.
func (s *AccountService) VerifySecurityAnswer(ctx context.Context, userID, answer string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, asUserErr(err)
	}
	if user.SecurityAnswerHash == "" {
		return false, domain.ErrNoSecurityQuestion
	}
	return auth.VerifySecurityAnswer(answer, user.SecurityAnswerHash), nil
}

// IssueToken creates a session token after a completed challenge.
func (s *AccountService) IssueToken(user *domain.User) (string, time.Time, error) {
	return s.tokenMgr.GenerateToken(user.ID, user.Role)
}

// ChangePassword is the authenticated self-service entry point. No minimum
// length is enforced here; that divergence from RenewPassword is preserved
// deliberately.
func (s *AccountService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return asUserErr(err)
	}
	return s.rotatePassword(ctx, user, oldPassword, newPassword, false)
}

// RenewPassword is the challenged-flow entry point used when a password has
// expired; it additionally enforces the minimum length.
func (s *AccountService) RenewPassword(ctx context.Context, email, oldPassword, newPassword string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return asUserErr(err)
	}
	return s.rotatePassword(ctx, user, oldPassword, newPassword, true)
}

func (s *AccountService) rotatePassword(ctx context.Context, user *domain.User, oldPassword, newPassword string, enforceMinLength bool) error {
	if err := auth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		return domain.ErrIncorrectOldPassword
	}
	if auth.ComparePassword(user.PasswordHash, newPassword) == nil {
		return domain.ErrPasswordUnchanged
	}
	reused, err := s.passwordInHistory(ctx, user.ID, newPassword)
	if err != nil {
		return err
	}
	if reused {
		return domain.ErrPasswordReused
	}
	if enforceMinLength && len(newPassword) < s.renewalMinLen {
		return domain.ErrPasswordTooShort
	}

	// Hash before any write so a rejected new password (bcrypt caps input
	// at 72 bytes) leaves both the account and the history untouched.
	newHash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	// The retiring hash goes into history before it is overwritten.
	if err := s.appendHistory(ctx, user.ID, user.PasswordHash); err != nil {
		return err
	}

	now := s.now()
	user.PasswordHash = newHash
	user.PasswordUpdatedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventPasswordChanged,
		UserID: user.ID,
		Payload: events.AccountPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	})
	return nil
}

// IsPasswordExpired reports whether the rotation window has elapsed.
func (s *AccountService) IsPasswordExpired(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, asUserErr(err)
	}
	return s.passwordExpired(user, s.now()), nil
}

// DaysUntilExpiration returns whole days remaining, floored at zero.
func (s *AccountService) DaysUntilExpiration(ctx context.Context, email string) (int64, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return 0, asUserErr(err)
	}
	if user.PasswordUpdatedAt == nil {
		return 0, nil
	}
	remaining := user.PasswordUpdatedAt.Add(s.expiration).Sub(s.now())
	days := int64(remaining / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return days, nil
}

// UpdateProfile applies a partial profile update.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return asUserErr(err)
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Birthdate != nil {
		user.Birthdate = input.Birthdate
	}
	return s.users.Update(ctx, user)
}

// Unsubscribe soft-deletes the account: the record stays, active flips off.
func (s *AccountService) Unsubscribe(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, asUserErr(err)
	}
	user.Active = false
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserUnsubscribed,
		UserID: user.ID,
		Payload: events.AccountPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	})
	return user, nil
}

// GetUser loads a user by id.
func (s *AccountService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, asUserErr(err)
	}
	return user, nil
}

// UsersByBirthdateRange is a simple lookup with no invariants of its own.
func (s *AccountService) UsersByBirthdateRange(ctx context.Context, from, to time.Time) ([]domain.User, error) {
	return s.users.ListByBirthdateRange(ctx, from, to)
}

func (s *AccountService) resetAttempts(ctx context.Context, email string) {
	if s.rateLimiter == nil {
		return
	}
	if err := s.rateLimiter.Reset(ctx, email); err != nil {
		s.logger.Warn("login rate limiter reset failed", zap.Error(err))
	}
}

func (s *AccountService) passwordExpired(user *domain.User, now time.Time) bool {
	// A missing timestamp counts as already expired.
	if user.PasswordUpdatedAt == nil {
		return true
	}
	return now.After(user.PasswordUpdatedAt.Add(s.expiration))
}

func (s *AccountService) passwordInHistory(ctx context.Context, userID, plainPassword string) (bool, error) {
	entries, err := s.history.ListRecentByUser(ctx, userID, domain.PasswordHistoryLimit)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if auth.ComparePassword(entry.PasswordHash, plainPassword) == nil {
			return true, nil
		}
	}
	return false, nil
}

func (s *AccountService) appendHistory(ctx context.Context, userID, passwordHash string) error {
	entry := &domain.PasswordHistoryEntry{
		UserID:       userID,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	if err := s.history.Create(ctx, entry); err != nil {
		return err
	}
	return s.history.DeleteOlderThanNewest(ctx, userID, domain.PasswordHistoryLimit)
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
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

func asUserErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	return err
}
