package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/events"
	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/internal/repository"
)

// clock hands out strictly increasing timestamps so newest-first ordering is deterministic
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.t.IsZero() {
		c.t = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	c.t = c.t.Add(time.Second)
	return c.t
}

type fakeMerchants struct {
	clock *clock
	byID  map[string]*model.Merchant
}

func newFakeMerchants(c *clock) *fakeMerchants {
	return &fakeMerchants{clock: c, byID: map[string]*model.Merchant{}}
}

func (f *fakeMerchants) Create(ctx context.Context, m *model.Merchant) error {
	for _, existing := range f.byID {
		if existing.Email == m.Email {
			return apperr.Conflict("email", "email already in use")
		}
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = f.clock.next()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	f.byID[m.ID] = &cp
	return nil
}

func (f *fakeMerchants) FindByID(ctx context.Context, id string) (*model.Merchant, error) {
	if m, ok := f.byID[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, apperr.NotFound("merchant not found")
}

func (f *fakeMerchants) find(match func(*model.Merchant) bool) (*model.Merchant, error) {
	for _, m := range f.byID {
		if match(m) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("merchant not found")
}

func (f *fakeMerchants) FindByEmail(ctx context.Context, email string) (*model.Merchant, error) {
	return f.find(func(m *model.Merchant) bool { return m.Email == email })
}

func (f *fakeMerchants) FindByStoreName(ctx context.Context, storeName string) (*model.Merchant, error) {
	return f.find(func(m *model.Merchant) bool { return m.StoreName != nil && *m.StoreName == storeName })
}

func (f *fakeMerchants) StoreNameHeld(ctx context.Context, storeName, exceptID string) (bool, error) {
	_, err := f.find(func(m *model.Merchant) bool {
		return m.ID != exceptID && m.StoreName != nil && *m.StoreName == storeName
	})
	return err == nil, nil
}

func (f *fakeMerchants) UpdateStoreName(ctx context.Context, id, storeName string) (*model.Merchant, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, apperr.NotFound("merchant not found")
	}
	name := storeName
	m.StoreName = &name
	return f.FindByID(ctx, id)
}

type fakeProducts struct {
	clock     *clock
	byID      map[string]*model.Product
	createErr error
}

func newFakeProducts(c *clock) *fakeProducts {
	return &fakeProducts{clock: c, byID: map[string]*model.Product{}}
}

func (f *fakeProducts) ListByMerchant(ctx context.Context, merchantID string) ([]model.Product, error) {
	out := []model.Product{}
	for _, p := range f.byID {
		if p.MerchantID == merchantID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeProducts) FindOwned(ctx context.Context, merchantID, id string) (*model.Product, error) {
	if p, ok := f.byID[id]; ok && p.MerchantID == merchantID {
		cp := *p
		return &cp, nil
	}
	return nil, apperr.NotFound("product not found")
}

func (f *fakeProducts) Create(ctx context.Context, p *model.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = f.clock.next()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, p *model.Product) error {
	existing, ok := f.byID[p.ID]
	if !ok || existing.MerchantID != p.MerchantID {
		return apperr.NotFound("product not found")
	}
	p.UpdatedAt = f.clock.next()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, merchantID, id string) error {
	if p, ok := f.byID[id]; ok && p.MerchantID == merchantID {
		delete(f.byID, id)
		return nil
	}
	return apperr.NotFound("product not found")
}

func (f *fakeProducts) CountByMerchant(ctx context.Context, merchantID string) (int64, error) {
	products, _ := f.ListByMerchant(ctx, merchantID)
	return int64(len(products)), nil
}

// fakeQuotes validates ownership against fakeProducts and stores all or nothing
type fakeQuotes struct {
	clock       *clock
	products    *fakeProducts
	byID        map[string]*model.QuoteRequest
	createCalls int
}

func newFakeQuotes(c *clock, products *fakeProducts) *fakeQuotes {
	return &fakeQuotes{clock: c, products: products, byID: map[string]*model.QuoteRequest{}}
}

func (f *fakeQuotes) CreateWithItems(ctx context.Context, req *model.QuoteRequest, items []model.QuoteRequestItem) error {
	f.createCalls++
	for _, item := range items {
		if _, err := f.products.FindOwned(ctx, req.MerchantID, item.ProductID); err != nil {
			return apperr.Validation("products", "invalid product id: "+item.ProductID)
		}
	}

	req.ID = uuid.NewString()
	req.CreatedAt = f.clock.next()
	req.UpdatedAt = req.CreatedAt
	for i := range items {
		items[i].ID = uuid.NewString()
		items[i].QuoteRequestID = req.ID
		items[i].CreatedAt = req.CreatedAt
	}
	req.Items = items

	cp := *req
	cp.Items = append([]model.QuoteRequestItem(nil), items...)
	f.byID[req.ID] = &cp
	return nil
}

func (f *fakeQuotes) ListByMerchant(ctx context.Context, merchantID string, status model.QuoteStatus) ([]model.QuoteRequest, error) {
	out := []model.QuoteRequest{}
	for _, q := range f.byID {
		if q.MerchantID == merchantID && (status == "" || q.Status == status) {
			cp := *q
			cp.Items = nil
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeQuotes) FindOwnedWithItems(ctx context.Context, merchantID, id string) (*model.QuoteRequest, error) {
	q, ok := f.byID[id]
	if !ok || q.MerchantID != merchantID {
		return nil, apperr.NotFound("quote request not found")
	}
	cp := *q
	cp.Items = make([]model.QuoteRequestItem, len(q.Items))
	for i, item := range q.Items {
		if p, ok := f.products.byID[item.ProductID]; ok {
			pc := *p
			item.Product = &pc
		}
		cp.Items[i] = item
	}
	return &cp, nil
}

func (f *fakeQuotes) UpdateStatus(ctx context.Context, merchantID, id string, status model.QuoteStatus) error {
	q, ok := f.byID[id]
	if !ok || q.MerchantID != merchantID {
		return apperr.NotFound("quote request not found")
	}
	q.Status = status
	return nil
}

func (f *fakeQuotes) CountByStatus(ctx context.Context, merchantID string) ([]repository.StatusCount, error) {
	counts := map[model.QuoteStatus]int64{}
	for _, q := range f.byID {
		if q.MerchantID == merchantID {
			counts[q.Status]++
		}
	}
	out := []repository.StatusCount{}
	for status, n := range counts {
		out = append(out, repository.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

type fakeImages struct {
	saved     map[string]string
	deleted   []string
	saveErr   error
	deleteErr error
}

func newFakeImages() *fakeImages {
	return &fakeImages{saved: map[string]string{}}
}

func (f *fakeImages) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/uploads/products/" + name
	f.saved[url] = string(data)
	return url, nil
}

func (f *fakeImages) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	delete(f.saved, url)
	return f.deleteErr
}

type seqNamer struct{ n int }

func (s *seqNamer) Name(filename string) string {
	s.n++
	return fmt.Sprintf("img-%d%s", s.n, filepath.Ext(filename))
}

type fakePublisher struct {
	events []events.QuoteEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event events.QuoteEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) Close() error { return nil }
