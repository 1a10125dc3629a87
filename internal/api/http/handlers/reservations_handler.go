package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/library-service/internal/api/dto"
	"github.com/spec-kit/library-service/internal/service"
)

// ReservationsHandler exposes reservation endpoints.
type ReservationsHandler struct {
	reservations *service.ReservationService
}

// NewReservationsHandler constructs handler.
func NewReservationsHandler(reservations *service.ReservationService) *ReservationsHandler {
	return &ReservationsHandler{reservations: reservations}
}

// Reserve handles POST /api/reservations.
func (h *ReservationsHandler) Reserve(c *fiber.Ctx) error {
	var req dto.ReserveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.BookID == "" || req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "book_id and email required")
	}

	reservation, err := h.reservations.Reserve(c.Context(), req.BookID, req.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromReservation(reservation)})
}

// Cancel handles POST /api/reservations/:id/cancel.
func (h *ReservationsHandler) Cancel(c *fiber.Ctx) error {
	reservation, err := h.reservations.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromReservation(reservation)})
}

// ListForUser handles GET /api/reservations?email=.
func (h *ReservationsHandler) ListForUser(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	reservations, err := h.reservations.ListForUser(c.Context(), email)
	if err != nil {
		return err
	}
	result := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		result = append(result, dto.FromReservation(&reservations[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}

// ListForBook handles GET /api/books/:id/reservations (admin).
func (h *ReservationsHandler) ListForBook(c *fiber.Ctx) error {
	reservations, err := h.reservations.ListForBook(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	result := make([]dto.ReservationResponse, 0, len(reservations))
	for i := range reservations {
		result = append(result, dto.FromReservation(&reservations[i]))
	}
	return c.JSON(fiber.Map{"data": result})
}

// Availability handles GET /api/books/:id/availability.
func (h *ReservationsHandler) Availability(c *fiber.Ctx) error {
	bookID := c.Params("id")
	available, err := h.reservations.AvailableStock(c.Context(), bookID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AvailabilityResponse{
		BookID:    bookID,
		Available: available,
	}})
}
