package keyreg

import (
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes key registry endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a key registry handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type registerKeyRequest struct {
	Scheme    string `json:"scheme"`
	PublicKey string `json:"public_key"` // hex encoded
}

type keyResponse struct {
	AccountID int64     `json:"account_id"`
	Scheme    string    `json:"scheme"`
	PublicKey string    `json:"public_key"`
	CreatedAt time.Time `json:"created_at"`
}

// Register stores a new key for the account in the path.
func (h *Handler) Register(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid account id")
	}

	var req registerKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	publicKey, err := hex.DecodeString(req.PublicKey)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "public_key must be hex encoded")
	}

	key, err := h.service.Register(c.UserContext(), RegisterInput{
		AccountID: accountID,
		Scheme:    req.Scheme,
		PublicKey: publicKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownScheme), errors.Is(err, ErrEmptyKey):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDuplicateKey):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(keyResponse{
		AccountID: key.AccountID,
		Scheme:    key.Scheme,
		PublicKey: hex.EncodeToString(key.PublicKey),
		CreatedAt: key.CreatedAt,
	})
}

// List returns the keys registered for the account in the path.
func (h *Handler) List(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid account id")
	}

	keys, err := h.service.List(c.UserContext(), accountID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	out := make([]keyResponse, 0, len(keys))
	for _, key := range keys {
		out = append(out, keyResponse{
			AccountID: key.AccountID,
			Scheme:    key.Scheme,
			PublicKey: hex.EncodeToString(key.PublicKey),
			CreatedAt: key.CreatedAt,
		})
	}
	return c.JSON(out)
}
