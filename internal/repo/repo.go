package repo

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/quickcart/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.Tables()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
