package main

import (
	"Fridge-Keeper/cmd/config"
	migration "Fridge-Keeper/cmd/database/migrate"
	"Fridge-Keeper/internal/utils"
	"Fridge-Keeper/pkg/jwt"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	migrate := flag.Bool("migrate", false, "run database migrations and exit")
	triggerSubject := flag.String("trigger-token", "", "print a batch trigger token for this subject and exit")
	triggerTTL := flag.Duration("trigger-token-ttl", 365*24*time.Hour, "lifetime of the printed trigger token")
	flag.Parse()

	utils.LoadConfig()
	cfg := utils.GetAppConfig()

	if *triggerSubject != "" {
		token, err := jwt.NewJWTService(cfg.TriggerSecret).GenerateTriggerToken(*triggerSubject, *triggerTTL)
		if err != nil {
			log.Fatalf("error generating trigger token (is TRIGGER_SECRET set?): %v", err)
		}
		fmt.Println(token)
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("error connecting to database: %v", err)
	}

	if *migrate {
		if err := migration.Migrate(db); err != nil {
			log.Fatalf("error migrating database: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := config.NewApp(ctx, db, cfg)
	if err != nil {
		log.Fatalf("error creating app: %v", err)
	}

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Errorf("error shutting down: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
