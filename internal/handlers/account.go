package handlers

import (
	"ledgerpay/internal/middleware"
	"ledgerpay/internal/services/account"
	"ledgerpay/internal/utils/response"
	"ledgerpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler exposes account opening, lookup and deposit endpoints.
type AccountHandler struct {
	service account.Service
}

func NewAccountHandler(service account.Service) *AccountHandler {
	return &AccountHandler{service: service}
}

// Open handles POST /api/accounts.
func (h *AccountHandler) Open(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req account.OpenAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validation.Run(
		validation.Currency(req.Currency),
		validation.Description(req.Alias),
	); err != nil {
		return response.DomainError(c, err)
	}

	acct, err := h.service.OpenAccount(callerID, req)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "account opened", acct)
}

// Get handles GET /api/accounts/:id.
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return response.BadRequest(c, "accountId must be positive")
	}

	acct, err := h.service.GetAccount(callerID, uint(accountID))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "account", acct)
}

// Deposit handles POST /api/accounts/:id/deposit.
func (h *AccountHandler) Deposit(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	accountID, err := c.ParamsInt("id")
	if err != nil || accountID <= 0 {
		return response.BadRequest(c, "accountId must be positive")
	}

	var req account.DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validation.Run(validation.Amount(req.Amount)); err != nil {
		return response.DomainError(c, err)
	}

	acct, err := h.service.Deposit(callerID, uint(accountID), req)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "deposit applied", acct)
}
