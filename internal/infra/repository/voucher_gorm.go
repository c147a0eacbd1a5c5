package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/memberx/deals-api/internal/domain/voucher"
	"github.com/memberx/deals-api/internal/models"
)

type VoucherGormRepository struct {
	db *gorm.DB
}

func NewVoucherGormRepository(db *gorm.DB) *VoucherGormRepository {
	return &VoucherGormRepository{db: db}
}

// --------------------------------------------------
// Order / issuance
// --------------------------------------------------

func (r *VoucherGormRepository) GetOrder(
	ctx context.Context,
	orderID uint,
) (*models.Order, error) {

	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, orderID).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// CreateBatch persists the claim and the whole voucher set in one
// transaction. A failed mint rolls the claim back too, so the provider's
// next delivery starts from scratch instead of finding a short set behind
// a surviving claim.
func (r *VoucherGormRepository) CreateBatch(
	ctx context.Context,
	orderID uint,
	eventID string,
	vouchers []models.Voucher,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		batch := models.VoucherBatch{
			OrderID: orderID,
			EventID: eventID,
		}

		if err := tx.Create(&batch).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAlreadyIssued
			}
			return err
		}

		for i := range vouchers {
			if err := tx.Create(&vouchers[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *VoucherGormRepository) ListByOrder(
	ctx context.Context,
	orderID uint,
) ([]models.Voucher, error) {

	var vouchers []models.Voucher
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&vouchers).Error; err != nil {
		return nil, err
	}

	return vouchers, nil
}

func (r *VoucherGormRepository) CodeExists(
	ctx context.Context,
	code string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Redemption
// --------------------------------------------------

func (r *VoucherGormRepository) GetByCode(
	ctx context.Context,
	code string,
) (*models.Voucher, error) {

	var v models.Voucher
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&v).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// MarkRedeemed flips ACTIVE -> REDEEMED in one conditional update; the
// returned bool reports whether this call won the transition.
func (r *VoucherGormRepository) MarkRedeemed(
	ctx context.Context,
	voucherID uint,
	now time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("id = ? AND status = ?", voucherID, string(domain.StatusActive)).
		Updates(map[string]any{
			"status":      string(domain.StatusRedeemed),
			"redeemed_at": now,
		})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

func (r *VoucherGormRepository) RecordAttempt(
	ctx context.Context,
	a *models.RedemptionAttempt,
) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Compile-time check
var _ domain.Repository = (*VoucherGormRepository)(nil)
