package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/config"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/events"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			BcryptCost:              4,
			PasswordExpirationWeeks: 12,
			RenewalMinLength:        6,
			SecurityAnswerMaxLength: 32,
		},
		Reservation: config.ReservationConfig{MaxActivePerUser: 3},
	}
}

type accountFixture struct {
	service    *AccountService
	users      *fakeUserRepo
	history    *fakeHistoryRepo
	dispatcher *fakeDispatcher
}

func newAccountFixture(t *testing.T, now time.Time) *accountFixture {
	t.Helper()
	users := newFakeUserRepo()
	history := newFakeHistoryRepo()
	dispatcher := newFakeDispatcher()
	svc := NewAccountService(testConfig(), AccountDependencies{
		UserRepo:    users,
		HistoryRepo: history,
		Dispatcher:  dispatcher,
	}).WithClock(func() time.Time { return now })
	return &accountFixture{service: svc, users: users, history: history, dispatcher: dispatcher}
}

func (f *accountFixture) seedUser(t *testing.T, user *domain.User, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	user.PasswordHash = hash
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func validRegistration() RegisterInput {
	question := domain.QuestionFirstPet
	return RegisterInput{
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            "ada@example.com",
		Password:         "initial-pass",
		SecurityQuestion: &question,
		SecurityAnswer:   "Rex",
	}
}

func TestRegisterCreatesInactiveAccount(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)

	user, err := f.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.False(t, user.Active)
	assert.Equal(t, domain.RoleMember, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "initial-pass", user.PasswordHash)
	require.NotNil(t, user.PasswordUpdatedAt)
	assert.True(t, user.PasswordUpdatedAt.Equal(now))
	assert.Equal(t, auth.HashSecurityAnswer("Rex"), user.SecurityAnswerHash)

	assert.Equal(t, 1, f.history.countForUser(user.ID))
	assert.Len(t, f.dispatcher.published(events.EventUserRegistered), 1)
}

func TestRegisterValidation(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("duplicate email", func(t *testing.T) {
		f := newAccountFixture(t, now)
		_, err := f.service.Register(context.Background(), validRegistration())
		require.NoError(t, err)

		_, err = f.service.Register(context.Background(), validRegistration())
		assert.ErrorIs(t, err, domain.ErrDuplicateUser)
	})

	t.Run("missing security question", func(t *testing.T) {
		f := newAccountFixture(t, now)
		input := validRegistration()
		input.SecurityQuestion = nil
		_, err := f.service.Register(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrSecurityQuestionRequired)
	})

	t.Run("missing security answer", func(t *testing.T) {
		f := newAccountFixture(t, now)
		input := validRegistration()
		input.SecurityAnswer = ""
		_, err := f.service.Register(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrSecurityAnswerRequired)
	})

	t.Run("answer at limit accepted", func(t *testing.T) {
		f := newAccountFixture(t, now)
		input := validRegistration()
		input.SecurityAnswer = strings.Repeat("a", 32)
		_, err := f.service.Register(context.Background(), input)
		assert.NoError(t, err)
	})

	t.Run("answer over limit rejected", func(t *testing.T) {
		f := newAccountFixture(t, now)
		input := validRegistration()
		input.SecurityAnswer = strings.Repeat("a", 33)
		_, err := f.service.Register(context.Background(), input)
		assert.ErrorIs(t, err, domain.ErrSecurityAnswerTooLong)
	})
}

func TestActivate(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)

	user, err := f.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	activated, err := f.service.Activate(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, activated.Active)
	assert.Len(t, f.dispatcher.published(events.EventUserActivated), 1)

	_, err = f.service.Activate(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrAccountAlreadyActive)

	_, err = f.service.Activate(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthenticateRejections(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	f.seedUser(t, &domain.User{Email: "inactive@example.com", Active: false}, "secret-pw")
	f.seedUser(t, &domain.User{Email: "active@example.com", Active: true, PasswordUpdatedAt: &now}, "secret-pw")

	_, err := f.service.Authenticate(context.Background(), "unknown@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Active is checked before the password, so an inactive account is
	// reported as such even with wrong credentials.
	_, err = f.service.Authenticate(context.Background(), "inactive@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrAccountNotActive)

	_, err = f.service.Authenticate(context.Background(), "active@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticateSuccessWithoutChallenge(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	updated := now.Add(-24 * time.Hour)
	user := f.seedUser(t, &domain.User{
		Email:             "plain@example.com",
		Active:            true,
		Role:              domain.RoleMember,
		PasswordUpdatedAt: &updated,
	}, "secret-pw")

	result, err := f.service.Authenticate(context.Background(), "plain@example.com", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, AuthOutcomeSuccess, result.Outcome)
	assert.Equal(t, user.ID, result.UserID)
	assert.NotEmpty(t, result.Token)
}

func TestAuthenticateSecurityQuestionOutcome(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	question := domain.QuestionChildhoodCity
	updated := now.Add(-24 * time.Hour)
	user := f.seedUser(t, &domain.User{
		Email:              "challenged@example.com",
		Active:             true,
		SecurityQuestion:   &question,
		SecurityAnswerHash: auth.HashSecurityAnswer("Lyon"),
		PasswordUpdatedAt:  &updated,
	}, "secret-pw")

	result, err := f.service.Authenticate(context.Background(), "challenged@example.com", "secret-pw")
	require.NoError(t, err)
	assert.Equal(t, AuthOutcomeSecurityQuestion, result.Outcome)
	assert.Equal(t, question.Text(), result.SecurityQuestion)
	assert.Empty(t, result.Token)

	ok, err := f.service.VerifySecurityAnswer(context.Background(), user.ID, "  LYON ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.service.VerifySecurityAnswer(context.Background(), user.ID, "Paris")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthenticateRenewalRequired(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)

	t.Run("stale timestamp", func(t *testing.T) {
		updated := now.Add(-13 * 7 * 24 * time.Hour)
		f.seedUser(t, &domain.User{
			Email:             "stale@example.com",
			Active:            true,
			PasswordUpdatedAt: &updated,
		}, "secret-pw")

		result, err := f.service.Authenticate(context.Background(), "stale@example.com", "secret-pw")
		require.NoError(t, err)
		assert.Equal(t, AuthOutcomeRenewalRequired, result.Outcome)
		assert.Empty(t, result.Token)
	})

	t.Run("missing timestamp counts as expired", func(t *testing.T) {
		f.seedUser(t, &domain.User{
			Email:  "legacy@example.com",
			Active: true,
		}, "secret-pw")

		result, err := f.service.Authenticate(context.Background(), "legacy@example.com", "secret-pw")
		require.NoError(t, err)
		assert.Equal(t, AuthOutcomeRenewalRequired, result.Outcome)
	})

	t.Run("renewal outranks security question", func(t *testing.T) {
		question := domain.QuestionFirstCar
		updated := now.Add(-90 * 24 * time.Hour)
		f.seedUser(t, &domain.User{
			Email:              "both@example.com",
			Active:             true,
			SecurityQuestion:   &question,
			SecurityAnswerHash: auth.HashSecurityAnswer("Renault"),
			PasswordUpdatedAt:  &updated,
		}, "secret-pw")

		result, err := f.service.Authenticate(context.Background(), "both@example.com", "secret-pw")
		require.NoError(t, err)
		assert.Equal(t, AuthOutcomeRenewalRequired, result.Outcome)
		assert.Equal(t, question.Text(), result.SecurityQuestion)
	})
}

func TestAuthenticateRateLimiting(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	newLimitedFixture := func(t *testing.T, limiter *fakeLimiter) *accountFixture {
		t.Helper()
		users := newFakeUserRepo()
		history := newFakeHistoryRepo()
		dispatcher := newFakeDispatcher()
		svc := NewAccountService(testConfig(), AccountDependencies{
			UserRepo:    users,
			HistoryRepo: history,
			Dispatcher:  dispatcher,
			RateLimiter: limiter,
		}).WithClock(func() time.Time { return now })
		return &accountFixture{service: svc, users: users, history: history, dispatcher: dispatcher}
	}

	t.Run("blocked before credential check", func(t *testing.T) {
		limiter := newFakeLimiter(false)
		f := newLimitedFixture(t, limiter)

		_, err := f.service.Authenticate(context.Background(), "anyone@example.com", "pw")
		assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
		assert.Equal(t, []string{"anyone@example.com"}, limiter.blocked)
	})

	t.Run("wrong password keeps counting", func(t *testing.T) {
		limiter := newFakeLimiter(true)
		f := newLimitedFixture(t, limiter)
		f.seedUser(t, &domain.User{Email: "counted@example.com", Active: true, PasswordUpdatedAt: &now}, "secret-pw")

		_, err := f.service.Authenticate(context.Background(), "counted@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, 1, limiter.allows)
		assert.Equal(t, 0, limiter.resetCount())
	})

	// Renewal-required and security-question are successful authentications
	// too; being stuck in either flow must not burn through the limit.
	t.Run("reset on every successful outcome", func(t *testing.T) {
		limiter := newFakeLimiter(true)
		f := newLimitedFixture(t, limiter)
		question := domain.QuestionFirstPet
		fresh := now.Add(-24 * time.Hour)
		stale := now.Add(-100 * 24 * time.Hour)
		f.seedUser(t, &domain.User{Email: "plain@example.com", Active: true, PasswordUpdatedAt: &fresh}, "secret-pw")
		f.seedUser(t, &domain.User{
			Email:              "challenged@example.com",
			Active:             true,
			SecurityQuestion:   &question,
			SecurityAnswerHash: auth.HashSecurityAnswer("Rex"),
			PasswordUpdatedAt:  &fresh,
		}, "secret-pw")
		f.seedUser(t, &domain.User{Email: "stale@example.com", Active: true, PasswordUpdatedAt: &stale}, "secret-pw")

		for i, email := range []string{"plain@example.com", "challenged@example.com", "stale@example.com"} {
			result, err := f.service.Authenticate(context.Background(), email, "secret-pw")
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, i+1, limiter.resetCount())
		}
	})
}

func TestChangePasswordRules(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	user := f.seedUser(t, &domain.User{Email: "rotate@example.com", Active: true}, "old-pass")

	err := f.service.ChangePassword(context.Background(), user.ID, "bad-old", "new-pass")
	assert.ErrorIs(t, err, domain.ErrIncorrectOldPassword)

	err = f.service.ChangePassword(context.Background(), user.ID, "old-pass", "old-pass")
	assert.ErrorIs(t, err, domain.ErrPasswordUnchanged)

	// No minimum length on the authenticated entry point.
	err = f.service.ChangePassword(context.Background(), user.ID, "old-pass", "ab")
	require.NoError(t, err)

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordUpdatedAt)
	assert.True(t, stored.PasswordUpdatedAt.Equal(now))
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "ab"))

	// The retired password is now in history and cannot come back.
	err = f.service.ChangePassword(context.Background(), user.ID, "ab", "old-pass")
	assert.ErrorIs(t, err, domain.ErrPasswordReused)
}

func TestChangePasswordRejectedHashLeavesNoTrace(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	user := f.seedUser(t, &domain.User{Email: "atomic@example.com", Active: true}, "old-pass")

	// bcrypt refuses passwords over 72 bytes. The rejection must leave the
	// account and the history exactly as they were.
	err := f.service.ChangePassword(context.Background(), user.ID, "old-pass", strings.Repeat("x", 80))
	require.Error(t, err)

	assert.Equal(t, 0, f.history.countForUser(user.ID))

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "old-pass"))
	assert.Empty(t, f.dispatcher.published(events.EventPasswordChanged))
}

func TestRenewPasswordMinLength(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	f.seedUser(t, &domain.User{Email: "renew@example.com", Active: true}, "expired-pass")

	err := f.service.RenewPassword(context.Background(), "renew@example.com", "expired-pass", "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)

	err = f.service.RenewPassword(context.Background(), "renew@example.com", "expired-pass", "longenough")
	require.NoError(t, err)
	assert.Len(t, f.dispatcher.published(events.EventPasswordChanged), 1)
}

func TestRenewPasswordHistoryCheckedBeforeLength(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	user := f.seedUser(t, &domain.User{Email: "order@example.com", Active: true}, "ab")

	require.NoError(t, f.service.ChangePassword(context.Background(), user.ID, "ab", "middle-pass"))

	// "ab" is both in history and below the minimum; the reuse error wins.
	err := f.service.RenewPassword(context.Background(), "order@example.com", "middle-pass", "ab")
	assert.ErrorIs(t, err, domain.ErrPasswordReused)
}

func TestPasswordHistoryRetainsFiveEntries(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)

	user, err := f.service.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	passwords := []string{"initial-pass", "pass-1", "pass-2", "pass-3", "pass-4", "pass-5", "pass-6"}
	for i := 1; i < len(passwords); i++ {
		require.NoError(t, f.service.ChangePassword(context.Background(), user.ID, passwords[i-1], passwords[i]))
	}

	assert.Equal(t, domain.PasswordHistoryLimit, f.history.countForUser(user.ID))

	// The original password has aged out of the retained window.
	err = f.service.ChangePassword(context.Background(), user.ID, "pass-6", "initial-pass")
	assert.NoError(t, err)
}

func TestDaysUntilExpiration(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)

	updated := now.Add(-10 * 24 * time.Hour)
	f.seedUser(t, &domain.User{Email: "fresh@example.com", Active: true, PasswordUpdatedAt: &updated}, "pw")
	f.seedUser(t, &domain.User{Email: "legacy@example.com", Active: true}, "pw")
	expiredAt := now.Add(-100 * 24 * time.Hour)
	f.seedUser(t, &domain.User{Email: "overdue@example.com", Active: true, PasswordUpdatedAt: &expiredAt}, "pw")

	days, err := f.service.DaysUntilExpiration(context.Background(), "fresh@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(74), days)

	days, err = f.service.DaysUntilExpiration(context.Background(), "legacy@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), days)

	days, err = f.service.DaysUntilExpiration(context.Background(), "overdue@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), days)

	expired, err := f.service.IsPasswordExpired(context.Background(), "overdue@example.com")
	require.NoError(t, err)
	assert.True(t, expired)

	expired, err = f.service.IsPasswordExpired(context.Background(), "fresh@example.com")
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestUnsubscribeSoftDeletes(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	user := f.seedUser(t, &domain.User{Email: "leaving@example.com", Active: true}, "pw")

	unsubscribed, err := f.service.Unsubscribe(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, unsubscribed.Active)

	// The record survives; only the active flag flips.
	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Len(t, f.dispatcher.published(events.EventUserUnsubscribed), 1)
}

func TestUpdateProfilePartial(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f := newAccountFixture(t, now)
	user := f.seedUser(t, &domain.User{Email: "profile@example.com", FirstName: "Ada", LastName: "Lovelace", Active: true}, "pw")

	birthdate := time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC)
	err := f.service.UpdateProfile(context.Background(), user.ID, ProfileUpdateInput{
		LastName:  "Byron",
		Birthdate: &birthdate,
	})
	require.NoError(t, err)

	stored, err := f.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.FirstName)
	assert.Equal(t, "Byron", stored.LastName)
	require.NotNil(t, stored.Birthdate)
	assert.True(t, stored.Birthdate.Equal(birthdate))
}
