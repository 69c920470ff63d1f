package transfers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/httpay/httpay/internal/ledger"
)

// Handler exposes transfer endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	FromAccount int64  `json:"from_account"`
	ToAccount   int64  `json:"to_account"`
	Currency    string `json:"currency"`
	Amount      string `json:"amount"`
}

// Transfer processes an account-to-account transfer.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "amount must be a decimal string")
	}

	res, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		Currency:    req.Currency,
		Amount:      amount,
	})
	if err != nil {
		var insufficient *ledger.InsufficientFundsError
		switch {
		case errors.As(err, &insufficient):
			return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":     "insufficient funds",
				"balance":   insufficient.Balance.StringFixed(2),
				"currency":  insufficient.Currency,
				"requested": insufficient.Requested.StringFixed(2),
			})
		case errors.Is(err, ledger.ErrSenderNotFound):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ledger.ErrNonPositiveAmount),
			errors.Is(err, ledger.ErrSameAccount),
			errors.Is(err, ledger.ErrEmptyCurrency):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"from_account": req.FromAccount,
		"to_account":   req.ToAccount,
		"currency":     res.FromBalance.Currency,
		"from_balance": res.FromBalance.Amount.StringFixed(2),
		"to_balance":   res.ToBalance.Amount.StringFixed(2),
		"completed_at": res.CompletedAt,
	})
}

// Balance returns the balance for the (account, currency) in the path.
func (h *Handler) Balance(c *fiber.Ctx) error {
	account, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid account id")
	}
	currency := c.Params("currency")

	balance, err := h.service.Balance(c.UserContext(), account, currency)
	if err != nil {
		if errors.Is(err, ledger.ErrBalanceNotFound) {
			return fiber.NewError(http.StatusNotFound, "balance not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"account_id": balance.AccountID,
		"currency":   balance.Currency,
		"balance":    balance.Amount.StringFixed(2),
		"updated_at": balance.UpdatedAt,
	})
}
