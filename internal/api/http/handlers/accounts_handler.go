package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/service"
)

// AccountsHandler exposes account and credential endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Register handles POST /api/users/register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return fiber.NewError(http.StatusBadRequest, "first_name, last_name, email, password required")
	}

	input := service.RegisterInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Password:       req.Password,
		Birthdate:      req.Birthdate,
		SecurityAnswer: req.SecurityAnswer,
	}
	if req.SecurityQuestion != "" {
		question, err := domain.ParseSecurityQuestion(req.SecurityQuestion)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "unknown security question")
		}
		input.SecurityQuestion = &question
	}

	user, err := h.accounts.Register(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Activate handles POST /api/users/activate/:id.
func (h *AccountsHandler) Activate(c *fiber.Ctx) error {
	user, err := h.accounts.Activate(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// SendActivationMail handles POST /api/users/activation-mail.
func (h *AccountsHandler) SendActivationMail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}
	if err := h.accounts.SendActivationMail(c.Context(), req.Email); err != nil {
		return err
	}
	return c.SendStatus(http.StatusAccepted)
}

// Login handles POST /api/users/login.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	result, err := h.accounts.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	resp := dto.LoginResponse{
		Outcome:          string(result.Outcome),
		UserID:           result.UserID,
		SecurityQuestion: result.SecurityQuestion,
	}
	if result.Outcome == service.AuthOutcomeSuccess {
		resp.Token = result.Token
		exp := result.TokenExpiresAt
		resp.ExpiresAt = &exp
	}
	return c.JSON(fiber.Map{"data": resp})
}

// VerifySecurityAnswer handles POST /api/users/security-answer.
func (h *AccountsHandler) VerifySecurityAnswer(c *fiber.Ctx) error {
	var req dto.SecurityAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.UserID == "" || req.Answer == "" {
		return fiber.NewError(http.StatusBadRequest, "user_id and answer required")
	}

	ok, err := h.accounts.VerifySecurityAnswer(c.Context(), req.UserID, req.Answer)
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(fiber.Map{"data": fiber.Map{"verified": false}})
	}

	user, err := h.accounts.GetUser(c.Context(), req.UserID)
	if err != nil {
		return err
	}
	token, exp, err := h.accounts.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"verified":   true,
		"token":      token,
		"expires_at": exp,
	}})
}

// ChangePassword handles POST /api/users/password/change (authenticated).
func (h *AccountsHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "old_password and new_password required")
	}

	if err := h.accounts.ChangePassword(c.Context(), principal.User.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// RenewPassword handles POST /api/users/password/renew (challenged flow,
// no session required).
func (h *AccountsHandler) RenewPassword(c *fiber.Ctx) error {
	var req dto.RenewPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.OldPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "email, old_password and new_password required")
	}

	if err := h.accounts.RenewPassword(c.Context(), req.Email, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// PasswordExpiry handles GET /api/users/password/expiry?email=.
func (h *AccountsHandler) PasswordExpiry(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	expired, err := h.accounts.IsPasswordExpired(c.Context(), email)
	if err != nil {
		return err
	}
	days, err := h.accounts.DaysUntilExpiration(c.Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PasswordExpiryResponse{
		Expired:       expired,
		DaysRemaining: days,
	}})
}

// UpdateProfile handles PATCH /api/users/me (authenticated).
func (h *AccountsHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	err := h.accounts.UpdateProfile(c.Context(), principal.User.ID, service.ProfileUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Birthdate: req.Birthdate,
	})
	if err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Unsubscribe handles DELETE /api/users/me (authenticated, soft delete).
func (h *AccountsHandler) Unsubscribe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	user, err := h.accounts.Unsubscribe(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// ListByBirthdate handles GET /api/users?birth_start=&birth_end= (admin).
func (h *AccountsHandler) ListByBirthdate(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", c.Query("birth_start"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "birth_start must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", c.Query("birth_end"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "birth_end must be YYYY-MM-DD")
	}

	users, err := h.accounts.UsersByBirthdateRange(c.Context(), start, end)
	if err != nil {
		return err
	}
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Active:    user.Active,
		Birthdate: user.Birthdate,
	}
}
