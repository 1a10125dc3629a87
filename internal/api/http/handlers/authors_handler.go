package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/service"
)

// AuthorsHandler exposes contributor endpoints.
type AuthorsHandler struct {
	authors *service.AuthorService
}

// NewAuthorsHandler constructs handler.
func NewAuthorsHandler(authors *service.AuthorService) *AuthorsHandler {
	return &AuthorsHandler{authors: authors}
}

// Create handles POST /api/authors (admin).
func (h *AuthorsHandler) Create(c *fiber.Ctx) error {
	var req dto.AuthorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FirstName == "" || req.LastName == "" {
		return fiber.NewError(http.StatusBadRequest, "first_name and last_name required")
	}

	author := &domain.Author{FirstName: req.FirstName, LastName: req.LastName}
	if err := h.authors.Create(c.Context(), author); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromAuthor(author)})
}

// Get handles GET /api/authors/:id.
func (h *AuthorsHandler) Get(c *fiber.Ctx) error {
	author, err := h.authors.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAuthor(author)})
}

// List handles GET /api/authors?first_name=&last_name=.
func (h *AuthorsHandler) List(c *fiber.Ctx) error {
	firstName := c.Query("first_name")
	if firstName == "" {
		return fiber.NewError(http.StatusBadRequest, "first_name required")
	}

	authors, err := h.authors.Search(c.Context(), firstName, c.Query("last_name"))
	if err != nil {
		return err
	}
	result := make([]dto.AuthorResponse, 0, len(authors))
	for i := range authors {
		result = append(result, dto.FromAuthor(&authors[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}
