// Package errors defines the typed failures the service layer raises.
// Handlers translate categories to HTTP status codes; nothing below the
// handler layer ever produces wire format.
package errors

import "github.com/gofiber/fiber/v2"

// Category classifies a failure for transport mapping.
type Category string

const (
	CategoryNotFound     Category = "NOT_FOUND"
	CategoryConflict     Category = "CONFLICT"
	CategoryBadRequest   Category = "BAD_REQUEST"
	CategoryUnauthorized Category = "UNAUTHORIZED"
	CategoryInternal     Category = "INTERNAL"
)

// DomainError is a machine-checkable failure with a stable category.
type DomainError struct {
	Category Category
	Message  string
}

func (e *DomainError) Error() string { return e.Message }

// HTTPStatus maps the category to an HTTP status code.
func (e *DomainError) HTTPStatus() int {
	switch e.Category {
	case CategoryNotFound:
		return fiber.StatusNotFound
	case CategoryConflict:
		return fiber.StatusConflict
	case CategoryBadRequest:
		return fiber.StatusBadRequest
	case CategoryUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func NotFound(message string) *DomainError {
	return &DomainError{Category: CategoryNotFound, Message: message}
}

func Conflict(message string) *DomainError {
	return &DomainError{Category: CategoryConflict, Message: message}
}

func BadRequest(message string) *DomainError {
	return &DomainError{Category: CategoryBadRequest, Message: message}
}

func Unauthorized(message string) *DomainError {
	return &DomainError{Category: CategoryUnauthorized, Message: message}
}

func Internal(message string) *DomainError {
	return &DomainError{Category: CategoryInternal, Message: message}
}
