package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/prometheus"
)

const merchantNotFound = "merchant not found"

// MerchantRepository persists merchant accounts
type MerchantRepository interface {
	Create(ctx context.Context, m *model.Merchant) error
	FindByID(ctx context.Context, id string) (*model.Merchant, error)
	FindByEmail(ctx context.Context, email string) (*model.Merchant, error)
	FindByStoreName(ctx context.Context, storeName string) (*model.Merchant, error)
	StoreNameHeld(ctx context.Context, storeName, exceptID string) (bool, error)
	UpdateStoreName(ctx context.Context, id, storeName string) (*model.Merchant, error)
}

type GormMerchantRepository struct {
	db *gorm.DB
}

func NewGormMerchantRepository(db *gorm.DB) *GormMerchantRepository {
	return &GormMerchantRepository{db: db}
}

func (r *GormMerchantRepository) Create(ctx context.Context, m *model.Merchant) error {
	defer prometheus.TrackDBOperation("merchant_create")()

	err := r.db.WithContext(ctx).Create(m).Error
	if err != nil {
		if translated := translate(err, merchantNotFound, "email", "email already in use"); translated != err {
			return translated
		}
		return fmt.Errorf("create merchant: %w", err)
	}
	return nil
}

func (r *GormMerchantRepository) findOne(ctx context.Context, query string, arg any) (*model.Merchant, error) {
	var m model.Merchant
	err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error
	if err != nil {
		if translated := translate(err, merchantNotFound, "", ""); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("find merchant: %w", err)
	}
	return &m, nil
}

func (r *GormMerchantRepository) FindByID(ctx context.Context, id string) (*model.Merchant, error) {
	defer prometheus.TrackDBOperation("merchant_find")()
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormMerchantRepository) FindByEmail(ctx context.Context, email string) (*model.Merchant, error) {
	defer prometheus.TrackDBOperation("merchant_find")()
	return r.findOne(ctx, "email = ?", email)
}

func (r *GormMerchantRepository) FindByStoreName(ctx context.Context, storeName string) (*model.Merchant, error) {
	defer prometheus.TrackDBOperation("merchant_find")()
	return r.findOne(ctx, "store_name = ?", storeName)
}

// StoreNameHeld reports whether a merchant other than exceptID holds storeName. Empty exceptID checks all merchants.
func (r *GormMerchantRepository) StoreNameHeld(ctx context.Context, storeName, exceptID string) (bool, error) {
	defer prometheus.TrackDBOperation("merchant_store_name_check")()

	query := r.db.WithContext(ctx).Model(&model.Merchant{}).Where("store_name = ?", storeName)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check store name: %w", err)
	}
	return count > 0, nil
}

func (r *GormMerchantRepository) UpdateStoreName(ctx context.Context, id, storeName string) (*model.Merchant, error) {
	defer prometheus.TrackDBOperation("merchant_update_store_name")()

	result := r.db.WithContext(ctx).Model(&model.Merchant{}).Where("id = ?", id).Update("store_name", storeName)
	if result.Error != nil {
		if translated := translate(result.Error, merchantNotFound, "store_name", "store name already taken"); translated != result.Error {
			return nil, translated
		}
		return nil, fmt.Errorf("update store name: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound(merchantNotFound)
	}
	return r.findOne(ctx, "id = ?", id)
}
