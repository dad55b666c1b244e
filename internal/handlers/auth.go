package handlers

import (
	"ledgerpay/internal/services/auth"
	"ledgerpay/internal/utils/response"
	"ledgerpay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req auth.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validation.Run(
		validation.Email(req.Email),
		validation.Password(req.Password),
		validation.NotBlank("firstName", req.FirstName),
		validation.NotBlank("lastName", req.LastName),
	); err != nil {
		return response.DomainError(c, err)
	}

	user, err := h.service.Register(req)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Created(c, "user registered", user)
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req auth.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	if err := validation.Run(
		validation.Email(req.Email),
		validation.NotBlank("password", req.Password),
	); err != nil {
		return response.DomainError(c, err)
	}

	res, err := h.service.Login(req)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "login successful", res)
}
