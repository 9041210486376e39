package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/events"
	"github.com/suteetoe/quoteflow/internal/model"
)

type quoteFixture struct {
	svc        *QuoteService
	merchants  *fakeMerchants
	products   *fakeProducts
	quotes     *fakeQuotes
	publisher  *fakePublisher
	merchantID string
}

func newQuoteFixture(t *testing.T) *quoteFixture {
	t.Helper()
	c := &clock{}
	merchants := newFakeMerchants(c)
	products := newFakeProducts(c)
	quotes := newFakeQuotes(c, products)
	publisher := &fakePublisher{}

	m := &model.Merchant{Name: "Shop", Email: "shop@example.com"}
	require.NoError(t, merchants.Create(context.Background(), m))

	return &quoteFixture{
		svc:        NewQuoteService(quotes, merchants, publisher, zap.NewNop()),
		merchants:  merchants,
		products:   products,
		quotes:     quotes,
		publisher:  publisher,
		merchantID: m.ID,
	}
}

func (f *quoteFixture) addProduct(t *testing.T, merchantID, price, shipping, gst string) *model.Product {
	t.Helper()
	p := &model.Product{
		MerchantID:      merchantID,
		Name:            "Widget",
		Price:           model.MustMoney(price),
		MinQuantity:     1,
		ShippingCharges: model.MustMoney(shipping),
		GSTAmount:       model.MustMoney(gst),
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

var ann = Customer{Name: "Ann", Email: "ann@example.com", Phone: "555", Message: "hi"}

func TestSubmitQuoteRequest_PricesDetail(t *testing.T) {
	f := newQuoteFixture(t)
	p := f.addProduct(t, f.merchantID, "10.00", "5.00", "8.00")

	id, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	detail, err := f.svc.GetQuoteRequestDetail(context.Background(), f.merchantID, id)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, detail.Status)
	assert.Equal(t, "Ann", detail.CustomerName)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "33.00", detail.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "33.00", detail.Total.StringFixed(2))
	require.NotNil(t, detail.Items[0].Product)
	assert.Equal(t, p.ID, detail.Items[0].Product.ID)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, events.TypeQuoteSubmitted, ev.Type)
	assert.Equal(t, id, ev.RequestID)
	assert.Equal(t, f.merchantID, ev.MerchantID)
	assert.Equal(t, 1, ev.ItemCount)
}

func TestSubmitQuoteRequest_ForeignProductStoresNothing(t *testing.T) {
	f := newQuoteFixture(t)
	own := f.addProduct(t, f.merchantID, "1", "0", "0")
	foreign := f.addProduct(t, uuid.NewString(), "1", "0", "0")

	_, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{
		{ProductID: own.ID, Quantity: 1},
		{ProductID: foreign.ID, Quantity: 1},
	})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "invalid product id: "+foreign.ID, err.Error())
	assert.Empty(t, f.quotes.byID)
	assert.Empty(t, f.publisher.events)
}

func TestSubmitQuoteRequest_SkipsEmptyLines(t *testing.T) {
	f := newQuoteFixture(t)
	p := f.addProduct(t, f.merchantID, "1", "0", "0")

	id, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{
		{ProductID: p.ID, Quantity: 3},
		{ProductID: "", Quantity: 2},
		{ProductID: p.ID, Quantity: 0},
		{ProductID: p.ID, Quantity: -4},
	})
	require.NoError(t, err)
	require.Len(t, f.quotes.byID[id].Items, 1)
	assert.Equal(t, 3, f.quotes.byID[id].Items[0].Quantity)
}

func TestSubmitQuoteRequest_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		merchant func(f *quoteFixture) string
		customer Customer
		items    []ItemInput
		kind     apperr.Kind
	}{
		{
			name:     "unknown merchant",
			merchant: func(*quoteFixture) string { return uuid.NewString() },
			customer: ann,
			items:    []ItemInput{{ProductID: uuid.NewString(), Quantity: 1}},
			kind:     apperr.KindNotFound,
		},
		{
			name:     "malformed merchant id",
			merchant: func(*quoteFixture) string { return "shop" },
			customer: ann,
			items:    []ItemInput{{ProductID: uuid.NewString(), Quantity: 1}},
			kind:     apperr.KindNotFound,
		},
		{
			name:     "missing customer name",
			customer: Customer{Email: "ann@example.com"},
			items:    []ItemInput{{ProductID: uuid.NewString(), Quantity: 1}},
			kind:     apperr.KindValidation,
		},
		{
			name:     "missing customer email",
			customer: Customer{Name: "Ann"},
			items:    []ItemInput{{ProductID: uuid.NewString(), Quantity: 1}},
			kind:     apperr.KindValidation,
		},
		{
			name:     "no items",
			customer: ann,
			kind:     apperr.KindValidation,
		},
		{
			name:     "nothing left after filtering",
			customer: ann,
			items:    []ItemInput{{ProductID: uuid.NewString(), Quantity: 0}, {ProductID: "", Quantity: 5}},
			kind:     apperr.KindValidation,
		},
		{
			name:     "product id is not a uuid",
			customer: ann,
			items:    []ItemInput{{ProductID: "abc", Quantity: 1}},
			kind:     apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuoteFixture(t)
			merchantID := f.merchantID
			if tt.merchant != nil {
				merchantID = tt.merchant(f)
			}

			_, err := f.svc.SubmitQuoteRequest(context.Background(), merchantID, tt.customer, tt.items)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
			assert.Zero(t, f.quotes.createCalls, "no transaction is opened")
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestSubmitQuoteRequest_PublishFailureIsIgnored(t *testing.T) {
	f := newQuoteFixture(t)
	f.publisher.err = errors.New("broker down")
	p := f.addProduct(t, f.merchantID, "1", "0", "0")

	id, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)
	assert.Contains(t, f.quotes.byID, id)
}

func TestListQuoteRequests_StatusFilter(t *testing.T) {
	f := newQuoteFixture(t)
	p := f.addProduct(t, f.merchantID, "1", "0", "0")

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{{ProductID: p.ID, Quantity: 1}})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, f.svc.UpdateStatus(context.Background(), f.merchantID, ids[0], "rejected"))

	all, err := f.svc.ListQuoteRequests(context.Background(), f.merchantID, "all")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")

	unfiltered, err := f.svc.ListQuoteRequests(context.Background(), f.merchantID, "")
	require.NoError(t, err)
	assert.Len(t, unfiltered, 3)

	rejected, err := f.svc.ListQuoteRequests(context.Background(), f.merchantID, "rejected")
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, ids[0], rejected[0].ID)

	_, err = f.svc.ListQuoteRequests(context.Background(), f.merchantID, "archived")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	other, err := f.svc.ListQuoteRequests(context.Background(), uuid.NewString(), "")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestUpdateStatus_IdempotentAndAnyTransition(t *testing.T) {
	f := newQuoteFixture(t)
	p := f.addProduct(t, f.merchantID, "1", "0", "0")
	id, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	for _, status := range []string{"processed", "processed", "rejected", "pending"} {
		require.NoError(t, f.svc.UpdateStatus(context.Background(), f.merchantID, id, status))
		assert.Equal(t, model.QuoteStatus(status), f.quotes.byID[id].Status)
	}

	// one submitted event plus one per update
	require.Len(t, f.publisher.events, 5)
	assert.Equal(t, events.TypeQuoteStatusChanged, f.publisher.events[4].Type)
	assert.Equal(t, "pending", f.publisher.events[4].Status)
}

func TestUpdateStatus_Rejections(t *testing.T) {
	f := newQuoteFixture(t)
	p := f.addProduct(t, f.merchantID, "1", "0", "0")
	id, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	err = f.svc.UpdateStatus(context.Background(), f.merchantID, id, "done")
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Invalid status. Must be one of: pending, processed, rejected", err.Error())

	err = f.svc.UpdateStatus(context.Background(), uuid.NewString(), id, "processed")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.svc.GetQuoteRequestDetail(context.Background(), uuid.NewString(), id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, model.StatusPending, f.quotes.byID[id].Status)
}

func TestGetQuoteRequestDetail_JSONMoney(t *testing.T) {
	f := newQuoteFixture(t)
	p := f.addProduct(t, f.merchantID, "10", "5", "8")
	id, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{{ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)

	detail, err := f.svc.GetQuoteRequestDetail(context.Background(), f.merchantID, id)
	require.NoError(t, err)

	b, err := json.Marshal(detail)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"subtotal":"33.00"`)
	assert.Contains(t, string(b), `"total":"33.00"`)
	assert.Contains(t, string(b), `"price":"10.00"`)
}

func TestGetQuoteRequestDetail_UsesLivePrices(t *testing.T) {
	f := newQuoteFixture(t)
	p := f.addProduct(t, f.merchantID, "10", "0", "0")
	id, err := f.svc.SubmitQuoteRequest(context.Background(), f.merchantID, ann, []ItemInput{{ProductID: p.ID, Quantity: 3}})
	require.NoError(t, err)

	f.products.byID[p.ID].Price = model.MustMoney("12.5")

	detail, err := f.svc.GetQuoteRequestDetail(context.Background(), f.merchantID, id)
	require.NoError(t, err)
	assert.Equal(t, "37.5", detail.Total.String())
}
