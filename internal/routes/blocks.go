package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/httpay/httpay/internal/blocks"
)

// RegisterBlockRoutes wires block log endpoints.
func RegisterBlockRoutes(r fiber.Router, h *blocks.Handler) {
	r.Post("/blocks", h.Append)
	r.Get("/blocks/:id", h.Get)
}
