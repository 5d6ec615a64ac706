package postgres

import (
	"log"

	"github.com/bittworld/bg-affiliate-service/internal/config"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.AffiliateConfig) *gorm.DB {
	dsn := cfg.AffiliateDB.Dsn
	// TranslateError turns unique-constraint violations into
	// gorm.ErrDuplicatedKey, which the repositories map onto the
	// idempotency and already-in-tree domain errors.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.AffiliateTreeModel{},
		&models.AffiliateNodeModel{},
		&models.CommissionLogModel{},
		&models.CommissionRewardModel{},
	)

	return db
}
