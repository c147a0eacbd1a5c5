package db

import (
	"log"
	"time"

	"github.com/memberx/deals-api/internal/config"
	"github.com/memberx/deals-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		// surfaces unique violations as gorm.ErrDuplicatedKey, which the
		// voucher issuance claim relies on
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.City{},
		&models.Category{},
		&models.Vendor{},
		&models.User{},
		&models.Listing{},
		&models.ListingAsset{},
		&models.SlotRule{},
		&models.TimeSlot{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Booking{},
		&models.Voucher{},
		&models.VoucherBatch{},
		&models.RedemptionAttempt{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}
