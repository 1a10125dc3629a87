package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/service"
)

// BooksHandler exposes catalogue endpoints.
type BooksHandler struct {
	books *service.BookService
}

// NewBooksHandler constructs handler.
func NewBooksHandler(books *service.BookService) *BooksHandler {
	return &BooksHandler{books: books}
}

// Create handles POST /api/books (admin).
func (h *BooksHandler) Create(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ISBN == "" || req.Title == "" {
		return fiber.NewError(http.StatusBadRequest, "isbn and title required")
	}
	if req.PageCount < 0 || req.Stock < 0 {
		return fiber.NewError(http.StatusBadRequest, "page_count and stock must be non-negative")
	}

	book := bookFromRequest(req)
	if err := h.books.Save(c.Context(), book); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromBook(book)})
}

// Update handles PUT /api/books/:id (admin).
func (h *BooksHandler) Update(c *fiber.Ctx) error {
	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.PageCount < 0 || req.Stock < 0 {
		return fiber.NewError(http.StatusBadRequest, "page_count and stock must be non-negative")
	}

	book := bookFromRequest(req)
	book.ID = c.Params("id")
	if err := h.books.Save(c.Context(), book); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromBook(book)})
}

// Delete handles DELETE /api/books/:id (admin).
func (h *BooksHandler) Delete(c *fiber.Ctx) error {
	if err := h.books.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get handles GET /api/books/:id.
func (h *BooksHandler) Get(c *fiber.Ctx) error {
	book, err := h.books.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromBook(book)})
}

// List handles GET /api/books with optional search filters.
func (h *BooksHandler) List(c *fiber.Ctx) error {
	ctx := c.Context()

	if isbn := c.Query("isbn"); isbn != "" {
		book, err := h.books.GetByISBN(ctx, isbn)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": []dto.BookResponse{dto.FromBook(book)}})
	}

	var (
		books []domain.Book
		err   error
	)
	switch {
	case c.Query("author_id") != "":
		books, err = h.books.ListByAuthor(ctx, c.Query("author_id"))
	case c.Query("title") != "" && c.Query("description") != "":
		books, err = h.books.SearchByTitleOrDescription(ctx, c.Query("title"), c.Query("description"))
	case c.Query("title") != "":
		books, err = h.books.SearchByTitle(ctx, c.Query("title"))
	case c.Query("published") != "":
		published, parseErr := strconv.ParseBool(c.Query("published"))
		if parseErr != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid published filter")
		}
		books, err = h.books.ListByPublished(ctx, published)
	case c.Query("start_year") != "" && c.Query("end_year") != "":
		startYear, e1 := strconv.Atoi(c.Query("start_year"))
		endYear, e2 := strconv.Atoi(c.Query("end_year"))
		if e1 != nil || e2 != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid year range")
		}
		books, err = h.books.ListByYearRange(ctx, startYear, endYear)
	default:
		books, err = h.books.List(ctx)
	}
	if err != nil {
		return err
	}

	result := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		result = append(result, dto.FromBook(&books[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}

// Authors handles GET /api/books/:id/authors.
func (h *BooksHandler) Authors(c *fiber.Ctx) error {
	authors, err := h.books.Authors(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	result := make([]dto.AuthorResponse, 0, len(authors))
	for i := range authors {
		result = append(result, dto.FromAuthor(&authors[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}

// SetAuthors handles PUT /api/books/:id/authors (admin).
func (h *BooksHandler) SetAuthors(c *fiber.Ctx) error {
	var req dto.BookAuthorsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.books.SetAuthors(c.Context(), c.Params("id"), req.AuthorIDs); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func bookFromRequest(req dto.BookRequest) *domain.Book {
	return &domain.Book{
		ISBN:            req.ISBN,
		Title:           req.Title,
		Description:     req.Description,
		Editor:          req.Editor,
		PublicationDate: req.PublicationDate,
		Category:        req.Category,
		Language:        req.Language,
		PageCount:       req.PageCount,
		Published:       req.Published,
		Stock:           req.Stock,
	}
}
