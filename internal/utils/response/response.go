package response

import (
	"ledgerpay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// DomainError maps a typed service failure onto the wire. Internal failures
// are masked; everything else passes its message through.
func DomainError(c *fiber.Ctx, err error) error {
	if de, ok := err.(*errors.DomainError); ok {
		if de.Category == errors.CategoryInternal {
			return Error(c, de.HTTPStatus(), "internal error")
		}
		return Error(c, de.HTTPStatus(), de.Message)
	}
	return Error(c, fiber.StatusInternalServerError, "internal error")
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}
