package config

import (
	"Fridge-Keeper/internal/api/handlers"
	"Fridge-Keeper/internal/api/routes"
	"Fridge-Keeper/internal/middleware"
	"Fridge-Keeper/internal/utils"
	"Fridge-Keeper/pkg/ingredient"
	"Fridge-Keeper/pkg/jwt"
	"Fridge-Keeper/pkg/notification"
	"Fridge-Keeper/pkg/push"
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// NewApp wires the HTTP API and, when NOTIFY_INTERVAL is non-zero, starts the
// batch scheduler for the lifetime of ctx.
func NewApp(ctx context.Context, db *gorm.DB, cfg utils.Config) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   cfg.AppTimezone,
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	zone := notification.FixedZone(cfg.NotifyOffset())
	clock := func() time.Time { return time.Now().In(zone) }

	// utils
	sender, err := push.NewSender(push.SenderConfig{
		PublicKey:  cfg.VAPIDPublicKey,
		PrivateKey: cfg.VAPIDPrivateKey,
		Subject:    cfg.VAPIDSubject,
		TTL:        cfg.PushTTL,
	})
	if err != nil {
		return nil, err
	}

	// Repository
	ingredientRepository := ingredient.NewIngredientRepository(db)
	pushRepository := push.NewPushRepository(db)

	// Service
	jwtService := jwt.NewJWTService(cfg.TriggerSecret)
	notificationService := notification.NewNotificationService(ingredientRepository, pushRepository, sender, zone, clock)
	ingredientService := ingredient.NewIngredientService(ingredientRepository, notificationService, clock)
	pushService := push.NewPushService(pushRepository, cfg.VAPIDPublicKey)

	// Handler
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, validator)
	pushHandler := handlers.NewPushHandler(pushService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService, validator)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		IngredientHandler:   ingredientHandler,
		PushHandler:         pushHandler,
		NotificationHandler: notificationHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
		CORSOrigins:         cfg.CORSOrigins,
	}
	routesConfig.Setup()

	every, err := cfg.NotifyEvery()
	if err != nil {
		return nil, err
	}
	if every > 0 {
		ticker := time.NewTicker(every)
		go func() {
			defer ticker.Stop()
			notification.NewScheduler(notificationService).Run(ctx, ticker)
		}()
		log.Infof("NewApp: Batch expiry scan every %s (UTC%+d)", every, cfg.NotifyOffset())
	}

	if !jwtService.Enabled() {
		log.Warn("NewApp: TRIGGER_SECRET is empty, batch trigger endpoint is unauthenticated")
	}
	return app, nil
}
