package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/prometheus"
)

const productNotFound = "product not found"

// ProductRepository persists catalog products. Every method is scoped to one merchant.
type ProductRepository interface {
	ListByMerchant(ctx context.Context, merchantID string) ([]model.Product, error)
	FindOwned(ctx context.Context, merchantID, id string) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, merchantID, id string) error
	CountByMerchant(ctx context.Context, merchantID string) (int64, error)
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) ListByMerchant(ctx context.Context, merchantID string) ([]model.Product, error) {
	defer prometheus.TrackDBOperation("product_list")()

	products := []model.Product{}
	err := r.db.WithContext(ctx).
		Scopes(OwnedBy(merchantID)).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *GormProductRepository) FindOwned(ctx context.Context, merchantID, id string) (*model.Product, error) {
	defer prometheus.TrackDBOperation("product_find")()

	var p model.Product
	err := r.db.WithContext(ctx).Scopes(OwnedRecord(id, merchantID)).First(&p).Error
	if err != nil {
		if translated := translate(err, productNotFound, "", ""); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (r *GormProductRepository) Create(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("product_create")()

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Update writes every editable column, zero values included. p.UpdatedAt is set to the
// stored timestamp.
func (r *GormProductRepository) Update(ctx context.Context, p *model.Product) error {
	defer prometheus.TrackDBOperation("product_update")()

	// skip gorm's own updated_at stamp so the column gets exactly p.UpdatedAt
	p.UpdatedAt = r.db.NowFunc().Truncate(time.Microsecond)
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&model.Product{}).
		Scopes(OwnedRecord(p.ID, p.MerchantID)).
		Select("Name", "Description", "ImageURL", "Price", "MinQuantity", "ShippingCharges", "GSTAmount", "DeliveryTime", "UpdatedAt").
		Updates(p)
	if result.Error != nil {
		return fmt.Errorf("update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(productNotFound)
	}
	return nil
}

// Delete soft-deletes the product so historical quote items still resolve it
func (r *GormProductRepository) Delete(ctx context.Context, merchantID, id string) error {
	defer prometheus.TrackDBOperation("product_delete")()

	result := r.db.WithContext(ctx).Scopes(OwnedRecord(id, merchantID)).Delete(&model.Product{})
	if result.Error != nil {
		return fmt.Errorf("delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(productNotFound)
	}
	return nil
}

func (r *GormProductRepository) CountByMerchant(ctx context.Context, merchantID string) (int64, error) {
	defer prometheus.TrackDBOperation("product_count")()

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Scopes(OwnedBy(merchantID)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}
