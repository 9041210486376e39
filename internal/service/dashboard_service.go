package service

import (
	"context"

	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/internal/repository"
)

// Stats summarizes one merchant's catalog and request inbox
type Stats struct {
	TotalProducts     int64 `json:"totalProducts"`
	TotalRequests     int64 `json:"totalRequests"`
	PendingRequests   int64 `json:"pendingRequests"`
	ProcessedRequests int64 `json:"processedRequests"`
	RejectedRequests  int64 `json:"rejectedRequests"`
}

type DashboardService struct {
	products repository.ProductRepository
	quotes   repository.QuoteRepository
}

func NewDashboardService(products repository.ProductRepository, quotes repository.QuoteRepository) *DashboardService {
	return &DashboardService{products: products, quotes: quotes}
}

func (s *DashboardService) Stats(ctx context.Context, merchantID string) (*Stats, error) {
	products, err := s.products.CountByMerchant(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	counts, err := s.quotes.CountByStatus(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalProducts: products}
	for _, c := range counts {
		stats.TotalRequests += c.Count
		switch c.Status {
		case model.StatusPending:
			stats.PendingRequests = c.Count
		case model.StatusProcessed:
			stats.ProcessedRequests = c.Count
		case model.StatusRejected:
			stats.RejectedRequests = c.Count
		}
	}
	return stats, nil
}
