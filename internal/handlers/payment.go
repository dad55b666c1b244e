package handlers

import (
	"ledgerpay/internal/middleware"
	"ledgerpay/internal/services/account"
	"ledgerpay/internal/services/limits"
	"ledgerpay/internal/services/payment"
	"ledgerpay/internal/utils/response"
	"ledgerpay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PaymentHandler exposes the transfer, refund and history endpoints. Spending
// limits are checked here, before the engine runs; the engine transaction
// itself never consults them.
type PaymentHandler struct {
	service  payment.Service
	accounts account.Service
	limits   limits.Service
}

func NewPaymentHandler(service payment.Service, accounts account.Service, limitsService limits.Service) *PaymentHandler {
	return &PaymentHandler{service: service, accounts: accounts, limits: limitsService}
}

// CreateTransfer handles POST /api/payments/transfer.
func (h *PaymentHandler) CreateTransfer(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req payment.CreateTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validation.Run(
		validation.PositiveID("fromAccountId", req.FromAccountID),
		validation.PositiveID("toAccountId", req.ToAccountID),
		validation.DistinctAccounts(req.FromAccountID, req.ToAccountID),
		validation.Amount(req.Amount),
		validation.Description(req.Description),
	); err != nil {
		return response.DomainError(c, err)
	}

	// Pre-check spending limits against the source account's currency. A
	// lookup failure is left for the engine to report under its row locks.
	if h.limits != nil && h.accounts != nil {
		if src, err := h.accounts.GetAccount(callerID, req.FromAccountID); err == nil {
			amount, _ := decimal.NewFromString(req.Amount)
			if err := h.limits.CheckTransfer(c.UserContext(), callerID, src.Currency, amount); err != nil {
				return response.DomainError(c, err)
			}
		}
	}

	transfer, err := h.service.CreateTransfer(callerID, req)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "transfer completed", transfer)
}

// GetDetails handles GET /api/payments/:id.
func (h *PaymentHandler) GetDetails(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	paymentID, err := c.ParamsInt("id")
	if err != nil || paymentID <= 0 {
		return response.BadRequest(c, "paymentId must be positive")
	}

	details, err := h.service.GetPaymentDetails(callerID, uint(paymentID))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "payment details", details)
}

// Search handles GET /api/payments.
func (h *PaymentHandler) Search(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	fromID := c.QueryInt("fromAccountId", 0)
	toID := c.QueryInt("toAccountId", 0)
	if fromID < 0 {
		return response.BadRequest(c, "fromAccountId must be positive")
	}
	if toID < 0 {
		return response.BadRequest(c, "toAccountId must be positive")
	}

	req := payment.SearchRequest{
		Status:        c.Query("status"),
		FromAccountID: uint(fromID),
		ToAccountID:   uint(toID),
		Currency:      c.Query("currency"),
		CreatedFrom:   c.Query("createdFrom"),
		CreatedTo:     c.Query("createdTo"),
		Limit:         c.QueryInt("limit", 50),
		Offset:        c.QueryInt("offset", 0),
	}

	if err := validation.Run(
		validation.PageBounds(req.Limit, req.Offset),
		validation.OptionalCurrency(req.Currency),
		validation.TimeRange(req.CreatedFrom, req.CreatedTo),
	); err != nil {
		return response.DomainError(c, err)
	}

	page, err := h.service.SearchPayments(callerID, req)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "payments", page)
}

// CreateRefund handles POST /api/payments/:id/refund.
func (h *PaymentHandler) CreateRefund(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	paymentID, err := c.ParamsInt("id")
	if err != nil || paymentID <= 0 {
		return response.BadRequest(c, "paymentId must be positive")
	}

	refund, err := h.service.CreateRefund(callerID, uint(paymentID))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "refund completed", refund)
}

// ListRefunds handles GET /api/payments/:id/refunds.
func (h *PaymentHandler) ListRefunds(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	paymentID, err := c.ParamsInt("id")
	if err != nil || paymentID <= 0 {
		return response.BadRequest(c, "paymentId must be positive")
	}

	refunds, err := h.service.ListRefunds(callerID, uint(paymentID))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "refunds", fiber.Map{"items": refunds})
}
