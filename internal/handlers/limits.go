package handlers

import (
	"ledgerpay/internal/middleware"
	"ledgerpay/internal/services/limits"
	"ledgerpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// LimitsHandler exposes the caller's spending limit profile and usage.
type LimitsHandler struct {
	service limits.Service
}

func NewLimitsHandler(service limits.Service) *LimitsHandler {
	return &LimitsHandler{service: service}
}

// GetProfile handles GET /api/limits.
func (h *LimitsHandler) GetProfile(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	profile, err := h.service.GetProfile(callerID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "limits profile", profile)
}

// GetUsage handles GET /api/limits/usage.
func (h *LimitsHandler) GetUsage(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	usage, err := h.service.GetUsage(c.UserContext(), callerID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "limits usage", usage)
}
