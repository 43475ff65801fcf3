package routes

import (
	"Fridge-Keeper/internal/api/handlers"
	"Fridge-Keeper/internal/middleware"
	"Fridge-Keeper/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	IngredientHandler   handlers.IngredientHandler
	PushHandler         handlers.PushHandler
	NotificationHandler handlers.NotificationHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
	CORSOrigins         string
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware(c.CORSOrigins))
	c.Ingredients()
	c.Push()
	c.Notifications()
	c.GuestRoute()
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/v1/ingredients")
	{
		ingredients.Get("", c.IngredientHandler.GetIngredients)
		ingredients.Get("/summary", c.IngredientHandler.GetSummary)
		ingredients.Post("", c.IngredientHandler.AddIngredient)
		ingredients.Patch("/:id", c.IngredientHandler.UpdateIngredient)
		ingredients.Delete("/:id", c.IngredientHandler.DeleteIngredient)
	}
	c.App.Get("/api/v1/suggestions", c.IngredientHandler.GetSuggestions)
}

func (c *Config) Push() {
	push := c.App.Group("/api/v1/push")
	push.Get("/public-key", c.PushHandler.GetPublicKey)
	push.Get("/subscriptions", c.PushHandler.GetSubscriptionStatus)
	push.Post("/subscriptions", c.PushHandler.RegisterSubscription)
}

func (c *Config) Notifications() {
	c.App.Post("/api/v1/notifications/send",
		c.Middleware.TriggerAuthMiddleware(c.JWTService),
		c.NotificationHandler.SendNotification,
	)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/v1/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
