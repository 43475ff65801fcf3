package middleware

import (
	"Fridge-Keeper/domain"
	"Fridge-Keeper/internal/api/presenters"
	"Fridge-Keeper/pkg/jwt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type (
	Middleware interface {
		CORSMiddleware(origins string) fiber.Handler
		TriggerAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware(origins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

// TriggerAuthMiddleware guards the batch scan. Immediate and welcome requests
// pass through, as does everything when no trigger secret is configured.
// Bodies of any content type are decoded with BodyParser so the guard and the
// handler agree on which path a request takes.
func (m *middleware) TriggerAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !jwtService.Enabled() {
			return c.Next()
		}

		if !requiresTriggerToken(c) {
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		subject, err := jwtService.ValidateTriggerToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.Warnf("TriggerAuthMiddleware: Rejected batch trigger from %s, err: %v", c.IP(), err)
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals("trigger_subject", subject)
		return c.Next()
	}
}

// requiresTriggerToken reads the body the way the notification handler does.
// A body that cannot be parsed counts as a batch request.
func requiresTriggerToken(c *fiber.Ctx) bool {
	req := new(domain.SendNotificationRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return true
		}
	}
	return req.IsBatch()
}
