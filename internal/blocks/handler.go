package blocks

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/httpay/httpay/internal/blocklog"
)

// Handler exposes block log endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a block handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type appendRequest struct {
	Data []byte `json:"data"` // base64 encoded by encoding/json
}

// Append stores a new block.
func (h *Handler) Append(c *fiber.Ctx) error {
	var req appendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	block, err := h.service.Append(c.UserContext(), req.Data)
	if err != nil {
		switch {
		case errors.Is(err, blocklog.ErrEmptyData):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, blocklog.ErrContention):
			return fiber.NewError(http.StatusServiceUnavailable, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":         block.ID,
		"created_at": block.CreatedAt,
	})
}

// Get returns the block with the id in the path.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid block id")
	}

	block, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, blocklog.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "block not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"id":         block.ID,
		"data":       block.Data,
		"created_at": block.CreatedAt,
	})
}
