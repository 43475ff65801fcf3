package handlers

import (
	"Fridge-Keeper/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps a service error to the HTTP status returned to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrIngredientNotFound), errors.Is(err, domain.ErrNoPublicKey):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTriggerUnauthorized),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrMissingVAPIDKeys):
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusBadRequest
	}
}
