package handler

import (
	"context"
	"errors"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/internal/service"
)

type mockAuth struct{ mock.Mock }

func (m *mockAuth) Register(ctx context.Context, name, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, name, email, password)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) Authenticate(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*service.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuth) Profile(ctx context.Context, merchantID string) (*model.Merchant, error) {
	args := m.Called(ctx, merchantID)
	res, _ := args.Get(0).(*model.Merchant)
	return res, args.Error(1)
}

// ResolveCredential lets mockAuth back JWTAuthMiddleware in route tests
func (m *mockAuth) ResolveCredential(token string) (string, error) {
	if token == "merchant-token" {
		return merchantID, nil
	}
	return "", errors.New("bad token")
}

type mockCatalog struct {
	mock.Mock
	// imageBody captures what the handler streamed for the upload
	imageBody string
}

func (m *mockCatalog) ListProducts(ctx context.Context, merchantID string) ([]model.Product, error) {
	args := m.Called(ctx, merchantID)
	res, _ := args.Get(0).([]model.Product)
	return res, args.Error(1)
}

func (m *mockCatalog) GetProduct(ctx context.Context, merchantID, id string) (*model.Product, error) {
	args := m.Called(ctx, merchantID, id)
	res, _ := args.Get(0).(*model.Product)
	return res, args.Error(1)
}

func (m *mockCatalog) CreateProduct(ctx context.Context, merchantID string, in service.ProductInput, img *service.ImageUpload) (*model.Product, error) {
	if img != nil {
		b, _ := io.ReadAll(img.Body)
		m.imageBody = string(b)
		img.Body = nil
	}
	args := m.Called(ctx, merchantID, in, img)
	res, _ := args.Get(0).(*model.Product)
	return res, args.Error(1)
}

func (m *mockCatalog) UpdateProduct(ctx context.Context, merchantID, id string, in service.ProductInput, img *service.ImageUpload) (*model.Product, error) {
	args := m.Called(ctx, merchantID, id, in, img)
	res, _ := args.Get(0).(*model.Product)
	return res, args.Error(1)
}

func (m *mockCatalog) DeleteProduct(ctx context.Context, merchantID, id string) error {
	return m.Called(ctx, merchantID, id).Error(0)
}

type mockQuotes struct{ mock.Mock }

func (m *mockQuotes) SubmitQuoteRequest(ctx context.Context, merchantID string, customer service.Customer, items []service.ItemInput) (string, error) {
	args := m.Called(ctx, merchantID, customer, items)
	return args.String(0), args.Error(1)
}

func (m *mockQuotes) ListQuoteRequests(ctx context.Context, merchantID, status string) ([]model.QuoteRequest, error) {
	args := m.Called(ctx, merchantID, status)
	res, _ := args.Get(0).([]model.QuoteRequest)
	return res, args.Error(1)
}

func (m *mockQuotes) GetQuoteRequestDetail(ctx context.Context, merchantID, id string) (*service.QuoteRequestDetail, error) {
	args := m.Called(ctx, merchantID, id)
	res, _ := args.Get(0).(*service.QuoteRequestDetail)
	return res, args.Error(1)
}

func (m *mockQuotes) UpdateStatus(ctx context.Context, merchantID, id, status string) error {
	return m.Called(ctx, merchantID, id, status).Error(0)
}

type mockStores struct{ mock.Mock }

func (m *mockStores) ResolveStore(ctx context.Context, slug string) (*service.Storefront, error) {
	args := m.Called(ctx, slug)
	res, _ := args.Get(0).(*service.Storefront)
	return res, args.Error(1)
}

func (m *mockStores) CheckStoreNameAvailable(ctx context.Context, candidate string) (bool, error) {
	args := m.Called(ctx, candidate)
	return args.Bool(0), args.Error(1)
}

func (m *mockStores) ClaimStoreName(ctx context.Context, merchantID, candidate string) (*model.Merchant, error) {
	args := m.Called(ctx, merchantID, candidate)
	res, _ := args.Get(0).(*model.Merchant)
	return res, args.Error(1)
}

type mockDashboard struct{ mock.Mock }

func (m *mockDashboard) Stats(ctx context.Context, merchantID string) (*service.Stats, error) {
	args := m.Called(ctx, merchantID)
	res, _ := args.Get(0).(*service.Stats)
	return res, args.Error(1)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }
