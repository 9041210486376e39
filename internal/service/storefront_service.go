package service

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/internal/repository"
)

var storeNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Storefront is the public view of a merchant and its catalog
type Storefront struct {
	Store    *model.Merchant `json:"store"`
	Products []model.Product `json:"products"`
}

type StorefrontService struct {
	merchants repository.MerchantRepository
	products  repository.ProductRepository
	log       *zap.Logger
}

func NewStorefrontService(merchants repository.MerchantRepository, products repository.ProductRepository, log *zap.Logger) *StorefrontService {
	return &StorefrontService{merchants: merchants, products: products, log: log}
}

func normalizeStoreName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ResolveStore finds the merchant holding slug, case-insensitively
func (s *StorefrontService) ResolveStore(ctx context.Context, slug string) (*Storefront, error) {
	slug = normalizeStoreName(slug)
	if !storeNamePattern.MatchString(slug) {
		return nil, apperr.NotFound("store not found")
	}

	merchant, err := s.merchants.FindByStoreName(ctx, slug)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("store not found")
		}
		return nil, err
	}

	products, err := s.products.ListByMerchant(ctx, merchant.ID)
	if err != nil {
		return nil, err
	}
	return &Storefront{Store: merchant, Products: products}, nil
}

// CheckStoreNameAvailable reports whether candidate is well-formed and unclaimed
func (s *StorefrontService) CheckStoreNameAvailable(ctx context.Context, candidate string) (bool, error) {
	slug := normalizeStoreName(candidate)
	if !storeNamePattern.MatchString(slug) {
		return false, nil
	}

	held, err := s.merchants.StoreNameHeld(ctx, slug, "")
	if err != nil {
		return false, err
	}
	return !held, nil
}

// ClaimStoreName sets the merchant's store name. Reclaiming the current name is a no-op success.
func (s *StorefrontService) ClaimStoreName(ctx context.Context, merchantID, candidate string) (*model.Merchant, error) {
	slug := normalizeStoreName(candidate)
	if slug == "" {
		return nil, apperr.Validation("storeName", "store name is required")
	}
	if !storeNamePattern.MatchString(slug) {
		return nil, apperr.Validation("storeName", "store name may only contain letters, numbers, underscores and hyphens")
	}
	if !validID(merchantID) {
		return nil, apperr.NotFound("merchant not found")
	}

	held, err := s.merchants.StoreNameHeld(ctx, slug, merchantID)
	if err != nil {
		return nil, err
	}
	if held {
		return nil, apperr.Conflict("storeName", "store name already taken")
	}

	merchant, err := s.merchants.UpdateStoreName(ctx, merchantID, slug)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return nil, apperr.Conflict("storeName", "store name already taken")
		}
		return nil, err
	}

	s.log.Info("Store name updated",
		zap.String("merchant_id", merchantID),
		zap.String("store_name", slug))
	return merchant, nil
}
