package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/httpay/httpay/internal/transfers"
)

// RegisterTransferRoutes wires transfer and balance endpoints.
func RegisterTransferRoutes(r fiber.Router, h *transfers.Handler) {
	r.Post("/transfers", h.Transfer)
	r.Get("/accounts/:id/balances/:currency", h.Balance)
}
