package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/prometheus"
)

const quoteRequestNotFound = "quote request not found"

// StatusCount is one row of a per-status aggregate
type StatusCount struct {
	Status model.QuoteStatus
	Count  int64
}

// QuoteRepository persists quote requests and their items
type QuoteRepository interface {
	CreateWithItems(ctx context.Context, req *model.QuoteRequest, items []model.QuoteRequestItem) error
	ListByMerchant(ctx context.Context, merchantID string, status model.QuoteStatus) ([]model.QuoteRequest, error)
	FindOwnedWithItems(ctx context.Context, merchantID, id string) (*model.QuoteRequest, error)
	UpdateStatus(ctx context.Context, merchantID, id string, status model.QuoteStatus) error
	CountByStatus(ctx context.Context, merchantID string) ([]StatusCount, error)
}

type GormQuoteRepository struct {
	db *gorm.DB
}

func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// CreateWithItems inserts the request and its items in one transaction. Each product is
// re-read inside the transaction and must belong to the request's merchant; a miss rolls
// back everything.
func (r *GormQuoteRepository) CreateWithItems(ctx context.Context, req *model.QuoteRequest, items []model.QuoteRequestItem) error {
	defer prometheus.TrackDBOperation("quote_request_create")()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(req).Error; err != nil {
			return fmt.Errorf("insert quote request: %w", err)
		}

		for i := range items {
			item := &items[i]

			var count int64
			err := tx.Model(&model.Product{}).
				Scopes(OwnedRecord(item.ProductID, req.MerchantID)).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("check product %s: %w", item.ProductID, err)
			}
			if count == 0 {
				return apperr.Validation("products", "invalid product id: "+item.ProductID)
			}

			item.QuoteRequestID = req.ID
			if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
				return fmt.Errorf("insert quote request item: %w", err)
			}
		}

		req.Items = items
		return nil
	})
}

// ListByMerchant returns requests newest first. An empty status lists all of them.
func (r *GormQuoteRepository) ListByMerchant(ctx context.Context, merchantID string, status model.QuoteStatus) ([]model.QuoteRequest, error) {
	defer prometheus.TrackDBOperation("quote_request_list")()

	query := r.db.WithContext(ctx).Scopes(OwnedBy(merchantID))
	if status != "" {
		query = query.Where("status = ?", status)
	}

	requests := []model.QuoteRequest{}
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("list quote requests: %w", err)
	}
	return requests, nil
}

// FindOwnedWithItems loads the request with its items and their current product rows,
// soft-deleted products included.
func (r *GormQuoteRepository) FindOwnedWithItems(ctx context.Context, merchantID, id string) (*model.QuoteRequest, error) {
	defer prometheus.TrackDBOperation("quote_request_find")()

	var req model.QuoteRequest
	err := r.db.WithContext(ctx).
		Scopes(OwnedRecord(id, merchantID)).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		}).
		First(&req).Error
	if err != nil {
		if translated := translate(err, quoteRequestNotFound, "", ""); translated != err {
			return nil, translated
		}
		return nil, fmt.Errorf("find quote request: %w", err)
	}
	return &req, nil
}

// UpdateStatus overwrites the status unconditionally
func (r *GormQuoteRepository) UpdateStatus(ctx context.Context, merchantID, id string, status model.QuoteStatus) error {
	defer prometheus.TrackDBOperation("quote_request_update_status")()

	result := r.db.WithContext(ctx).
		Model(&model.QuoteRequest{}).
		Scopes(OwnedRecord(id, merchantID)).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("update quote request status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(quoteRequestNotFound)
	}
	return nil
}

func (r *GormQuoteRepository) CountByStatus(ctx context.Context, merchantID string) ([]StatusCount, error) {
	defer prometheus.TrackDBOperation("quote_request_stats")()

	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(&model.QuoteRequest{}).
		Select("status, count(*) AS count").
		Scopes(OwnedBy(merchantID)).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count quote requests: %w", err)
	}
	return counts, nil
}
