package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/httpay/httpay/internal/keyreg"
)

// RegisterKeyRoutes wires account key registry endpoints.
func RegisterKeyRoutes(r fiber.Router, h *keyreg.Handler) {
	r.Post("/accounts/:id/keys", h.Register)
	r.Get("/accounts/:id/keys", h.List)
}
