package handler

import (
	"context"

	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/internal/service"
)

// AuthService is implemented by *service.AuthService
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	Authenticate(ctx context.Context, email, password string) (*service.AuthResult, error)
	Profile(ctx context.Context, merchantID string) (*model.Merchant, error)
}

// CatalogService is implemented by *service.CatalogService
type CatalogService interface {
	ListProducts(ctx context.Context, merchantID string) ([]model.Product, error)
	GetProduct(ctx context.Context, merchantID, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, merchantID string, in service.ProductInput, img *service.ImageUpload) (*model.Product, error)
	UpdateProduct(ctx context.Context, merchantID, id string, in service.ProductInput, img *service.ImageUpload) (*model.Product, error)
	DeleteProduct(ctx context.Context, merchantID, id string) error
}

// QuoteService is implemented by *service.QuoteService
type QuoteService interface {
	SubmitQuoteRequest(ctx context.Context, merchantID string, customer service.Customer, items []service.ItemInput) (string, error)
	ListQuoteRequests(ctx context.Context, merchantID, status string) ([]model.QuoteRequest, error)
	GetQuoteRequestDetail(ctx context.Context, merchantID, id string) (*service.QuoteRequestDetail, error)
	UpdateStatus(ctx context.Context, merchantID, id, status string) error
}

// StorefrontService is implemented by *service.StorefrontService
type StorefrontService interface {
	ResolveStore(ctx context.Context, slug string) (*service.Storefront, error)
	CheckStoreNameAvailable(ctx context.Context, candidate string) (bool, error)
	ClaimStoreName(ctx context.Context, merchantID, candidate string) (*model.Merchant, error)
}

// DashboardService is implemented by *service.DashboardService
type DashboardService interface {
	Stats(ctx context.Context, merchantID string) (*service.Stats, error)
}
