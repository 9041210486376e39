package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/events"
	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/internal/repository"
	"github.com/suteetoe/quoteflow/prometheus"
)

const invalidStatusMessage = "Invalid status. Must be one of: pending, processed, rejected"

// Customer is the contact block of a public quote submission
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ItemInput is one requested product line
type ItemInput struct {
	ProductID string
	Quantity  int
}

// QuoteLine is a request item priced against the current product row
type QuoteLine struct {
	model.QuoteRequestItem
	Subtotal model.Money `json:"subtotal"`
}

// QuoteRequestDetail is a request with priced items
type QuoteRequestDetail struct {
	model.QuoteRequest
	Items []QuoteLine   `json:"items"`
	Total model.Money `json:"total"`
}

type QuoteService struct {
	quotes    repository.QuoteRepository
	merchants repository.MerchantRepository
	events    events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewQuoteService(quotes repository.QuoteRepository, merchants repository.MerchantRepository, publisher events.Publisher, log *zap.Logger) *QuoteService {
	return &QuoteService{
		quotes:    quotes,
		merchants: merchants,
		events:    publisher,
		log:       log,
		now:       time.Now,
	}
}

// SubmitQuoteRequest records an anonymous customer's request addressed to merchantID. Lines
// with an empty product id or a non-positive quantity are dropped; every remaining product
// must belong to the merchant or nothing is stored.
func (s *QuoteService) SubmitQuoteRequest(ctx context.Context, merchantID string, customer Customer, items []ItemInput) (string, error) {
	req, err := s.submit(ctx, merchantID, customer, items)
	switch {
	case err == nil:
		prometheus.RecordQuoteSubmission("accepted")
	case apperr.Is(err, apperr.KindInternal):
		prometheus.RecordQuoteSubmission("error")
		return "", err
	default:
		prometheus.RecordQuoteSubmission("rejected")
		return "", err
	}

	s.log.Info("Quote request submitted",
		zap.String("request_id", req.ID),
		zap.String("merchant_id", merchantID),
		zap.Int("items", len(req.Items)))

	s.publish(ctx, events.QuoteEvent{
		Type:       events.TypeQuoteSubmitted,
		RequestID:  req.ID,
		MerchantID: merchantID,
		Status:     string(req.Status),
		ItemCount:  len(req.Items),
		OccurredAt: s.now().UTC(),
	})

	return req.ID, nil
}

func (s *QuoteService) submit(ctx context.Context, merchantID string, customer Customer, items []ItemInput) (*model.QuoteRequest, error) {
	if !validID(merchantID) {
		return nil, apperr.NotFound("store not found")
	}
	if _, err := s.merchants.FindByID(ctx, merchantID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("store not found")
		}
		return nil, err
	}

	name := strings.TrimSpace(customer.Name)
	email := strings.TrimSpace(customer.Email)
	if name == "" {
		return nil, apperr.Validation("customerName", "customer name is required")
	}
	if email == "" {
		return nil, apperr.Validation("customerEmail", "customer email is required")
	}
	if len(items) == 0 {
		return nil, apperr.Validation("products", "at least one product is required")
	}

	lines := make([]model.QuoteRequestItem, 0, len(items))
	for _, item := range items {
		productID := strings.TrimSpace(item.ProductID)
		if productID == "" || item.Quantity <= 0 {
			continue
		}
		if !validID(productID) {
			return nil, apperr.Validation("products", "invalid product id: "+productID)
		}
		lines = append(lines, model.QuoteRequestItem{ProductID: productID, Quantity: item.Quantity})
	}
	if len(lines) == 0 {
		return nil, apperr.Validation("products", "at least one product with a positive quantity is required")
	}

	req := &model.QuoteRequest{
		MerchantID:    merchantID,
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: strings.TrimSpace(customer.Phone),
		Message:       strings.TrimSpace(customer.Message),
		Status:        model.StatusPending,
	}
	if err := s.quotes.CreateWithItems(ctx, req, lines); err != nil {
		return nil, err
	}
	return req, nil
}

// ParseStatusFilter maps a list filter onto a status. "" and "all" mean no filter.
func ParseStatusFilter(raw string) (model.QuoteStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return "", nil
	}
	status := model.QuoteStatus(raw)
	if !status.Valid() {
		return "", apperr.Validation("status", invalidStatusMessage)
	}
	return status, nil
}

func (s *QuoteService) ListQuoteRequests(ctx context.Context, merchantID, status string) ([]model.QuoteRequest, error) {
	filter, err := ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.quotes.ListByMerchant(ctx, merchantID, filter)
}

// GetQuoteRequestDetail prices each item against the product as it is now
func (s *QuoteService) GetQuoteRequestDetail(ctx context.Context, merchantID, id string) (*QuoteRequestDetail, error) {
	if !validID(id) {
		return nil, apperr.NotFound("quote request not found")
	}

	req, err := s.quotes.FindOwnedWithItems(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}

	detail := &QuoteRequestDetail{
		QuoteRequest: *req,
		Items:        make([]QuoteLine, 0, len(req.Items)),
	}
	detail.QuoteRequest.Items = nil

	total := decimal.Zero
	for _, item := range req.Items {
		subtotal := decimal.Zero
		if p := item.Product; p != nil {
			subtotal = p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).
				Add(p.ShippingCharges.Decimal).
				Add(p.GSTAmount.Decimal)
		}
		total = total.Add(subtotal)
		detail.Items = append(detail.Items, QuoteLine{QuoteRequestItem: item, Subtotal: model.NewMoney(subtotal)})
	}
	detail.Total = model.NewMoney(total)

	return detail, nil
}

// UpdateStatus overwrites the status. Setting the current status again succeeds.
func (s *QuoteService) UpdateStatus(ctx context.Context, merchantID, id, status string) error {
	next := model.QuoteStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return apperr.Validation("status", invalidStatusMessage)
	}
	if !validID(id) {
		return apperr.NotFound("quote request not found")
	}

	if err := s.quotes.UpdateStatus(ctx, merchantID, id, next); err != nil {
		return err
	}

	prometheus.RecordQuoteStatusChange(string(next))
	s.log.Info("Quote request status updated",
		zap.String("request_id", id),
		zap.String("merchant_id", merchantID),
		zap.String("status", string(next)))

	s.publish(ctx, events.QuoteEvent{
		Type:       events.TypeQuoteStatusChanged,
		RequestID:  id,
		MerchantID: merchantID,
		Status:     string(next),
		OccurredAt: s.now().UTC(),
	})
	return nil
}

// publish is best-effort. The database write has already committed.
func (s *QuoteService) publish(ctx context.Context, event events.QuoteEvent) {
	if err := s.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		prometheus.RecordEventPublish(event.Type, "error")
		s.log.Warn("Failed to publish quote event",
			zap.String("type", event.Type),
			zap.String("request_id", event.RequestID),
			zap.Error(err))
		return
	}
	prometheus.RecordEventPublish(event.Type, "ok")
}
