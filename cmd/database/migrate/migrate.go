package migration

import (
	"Fridge-Keeper/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		log.Printf("Error migrating ingredient database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Suggestion{}); err != nil {
		log.Printf("Error migrating suggestion database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PushSubscription{}); err != nil {
		log.Printf("Error migrating push subscription database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
