package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/memberx/deals-api/internal/domain/inventory"
	"github.com/memberx/deals-api/internal/models"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) GetRule(
	ctx context.Context,
	ruleID uint,
) (*models.SlotRule, error) {

	var rule models.SlotRule
	if err := r.db.WithContext(ctx).First(&rule, ruleID).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *InventoryGormRepository) CountSlotsAt(
	ctx context.Context,
	ruleID uint,
	starts []time.Time,
) (int64, error) {

	if len(starts) == 0 {
		return 0, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where("rule_id = ? AND starts_at IN ?", ruleID, starts).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// CreateSlots inserts the generated set in one transaction. The unique
// (rule, starts_at) index backstops the pre-insert overlap check: when two
// generation runs race past it, the loser's insert trips the index and is
// reported as a duplicate generation, not a server error.
func (r *InventoryGormRepository) CreateSlots(
	ctx context.Context,
	slots []models.TimeSlot,
) error {
	err := r.db.WithContext(ctx).CreateInBatches(slots, 200).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateGeneration
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*InventoryGormRepository)(nil)
