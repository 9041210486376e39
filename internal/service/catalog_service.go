package service

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/apperr"
	"github.com/suteetoe/quoteflow/internal/model"
	"github.com/suteetoe/quoteflow/internal/repository"
	"github.com/suteetoe/quoteflow/internal/storage"
	"github.com/suteetoe/quoteflow/prometheus"
)

// DefaultMaxImageBytes caps product image uploads
const DefaultMaxImageBytes int64 = 5 << 20

var (
	maxMoney = decimal.RequireFromString("9999999999.99")

	allowedImageTypes = map[string][]string{
		".jpg":  {"image/jpeg"},
		".jpeg": {"image/jpeg"},
		".png":  {"image/png"},
		".gif":  {"image/gif"},
		".webp": {"image/webp"},
	}
)

// ProductInput carries the raw form values of a product. Numbers stay strings until validated.
type ProductInput struct {
	Name            string
	Description     string
	Price           string
	MinQuantity     string
	ShippingCharges string
	GSTAmount       string
	DeliveryTime    string
}

// ImageUpload is an image file attached to a product form
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectNamer picks storage names for uploaded images
type ObjectNamer interface {
	Name(filename string) string
}

type CatalogService struct {
	products      repository.ProductRepository
	images        storage.ImageStore
	namer         ObjectNamer
	maxImageBytes int64
	log           *zap.Logger
}

func NewCatalogService(products repository.ProductRepository, images storage.ImageStore, namer ObjectNamer, maxImageBytes int64, log *zap.Logger) *CatalogService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &CatalogService{
		products:      products,
		images:        images,
		namer:         namer,
		maxImageBytes: maxImageBytes,
		log:           log,
	}
}

func parseMoney(field, raw string, required bool) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return decimal.Zero, apperr.Validation(field, field+" is required")
		}
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() || d.GreaterThan(maxMoney) {
		return decimal.Zero, apperr.Validation(field, field+" must be a non-negative number")
	}
	return d.Round(2), nil
}

// apply validates the input and copies it onto p. p is untouched on error.
func (in ProductInput) apply(p *model.Product) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperr.Validation("name", "name is required")
	}

	price, err := parseMoney("price", in.Price, true)
	if err != nil {
		return err
	}
	shipping, err := parseMoney("shipping_charges", in.ShippingCharges, false)
	if err != nil {
		return err
	}
	gst, err := parseMoney("gst_amount", in.GSTAmount, false)
	if err != nil {
		return err
	}

	minQuantity := 1
	if raw := strings.TrimSpace(in.MinQuantity); raw != "" {
		minQuantity, err = strconv.Atoi(raw)
		if err != nil || minQuantity < 1 {
			return apperr.Validation("min_quantity", "min_quantity must be an integer of at least 1")
		}
	}

	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	p.Price = model.NewMoney(price)
	p.MinQuantity = minQuantity
	p.ShippingCharges = model.NewMoney(shipping)
	p.GSTAmount = model.NewMoney(gst)
	p.DeliveryTime = strings.TrimSpace(in.DeliveryTime)
	return nil
}

func (s *CatalogService) validateImage(img *ImageUpload) error {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	types, ok := allowedImageTypes[ext]
	if !ok {
		return apperr.Validation("image", "only jpeg, jpg, png, gif and webp images are allowed")
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(img.ContentType, ";", 2)[0]))
	matched := false
	for _, t := range types {
		if contentType == t {
			matched = true
			break
		}
	}
	if !matched {
		return apperr.Validation("image", "only jpeg, jpg, png, gif and webp images are allowed")
	}

	if img.Size > s.maxImageBytes {
		return apperr.Validation("image", "image must be at most "+strconv.FormatInt(s.maxImageBytes>>20, 10)+" MB")
	}
	return nil
}

func (s *CatalogService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	name := s.namer.Name(img.Filename)
	body := io.LimitReader(img.Body, s.maxImageBytes+1)
	url, err := s.images.Save(ctx, name, img.ContentType, body, img.Size)
	if err != nil {
		return "", apperr.Internal("store image", err)
	}
	return url, nil
}

// discardImage removes a stored image; failures are logged and never returned
func (s *CatalogService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		s.log.Warn("Failed to remove product image", zap.String("image_url", url), zap.Error(err))
	}
}

func (s *CatalogService) ListProducts(ctx context.Context, merchantID string) ([]model.Product, error) {
	return s.products.ListByMerchant(ctx, merchantID)
}

func (s *CatalogService) GetProduct(ctx context.Context, merchantID, id string) (*model.Product, error) {
	if !validID(id) {
		return nil, apperr.NotFound("product not found")
	}
	return s.products.FindOwned(ctx, merchantID, id)
}

// CreateProduct validates the form, stores the optional image and inserts the product.
// The image is removed again when the insert fails.
func (s *CatalogService) CreateProduct(ctx context.Context, merchantID string, in ProductInput, img *ImageUpload) (*model.Product, error) {
	product := &model.Product{MerchantID: merchantID}
	if err := in.apply(product); err != nil {
		return nil, err
	}

	if img != nil {
		if err := s.validateImage(img); err != nil {
			return nil, err
		}
		url, err := s.storeImage(ctx, img)
		if err != nil {
			return nil, err
		}
		product.ImageURL = url
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.discardImage(ctx, product.ImageURL)
		return nil, err
	}

	prometheus.RecordProductOperation("create")
	s.log.Info("Product created successfully",
		zap.String("product_id", product.ID),
		zap.String("merchant_id", merchantID),
		zap.String("name", product.Name))

	return product, nil
}

// UpdateProduct replaces every editable field. A new image replaces the old one, which is
// then deleted best-effort.
func (s *CatalogService) UpdateProduct(ctx context.Context, merchantID, id string, in ProductInput, img *ImageUpload) (*model.Product, error) {
	existing, err := s.GetProduct(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if err := in.apply(&updated); err != nil {
		return nil, err
	}

	if img != nil {
		if err := s.validateImage(img); err != nil {
			return nil, err
		}
		url, err := s.storeImage(ctx, img)
		if err != nil {
			return nil, err
		}
		updated.ImageURL = url
	}

	if err := s.products.Update(ctx, &updated); err != nil {
		if updated.ImageURL != existing.ImageURL {
			s.discardImage(ctx, updated.ImageURL)
		}
		return nil, err
	}

	if updated.ImageURL != existing.ImageURL {
		s.discardImage(ctx, existing.ImageURL)
	}

	prometheus.RecordProductOperation("update")
	s.log.Info("Product updated successfully",
		zap.String("product_id", updated.ID),
		zap.String("merchant_id", merchantID))

	return &updated, nil
}

// DeleteProduct soft-deletes the product and then removes its image best-effort
func (s *CatalogService) DeleteProduct(ctx context.Context, merchantID, id string) error {
	existing, err := s.GetProduct(ctx, merchantID, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, merchantID, id); err != nil {
		return err
	}
	s.discardImage(ctx, existing.ImageURL)

	prometheus.RecordProductOperation("delete")
	s.log.Info("Product deleted successfully",
		zap.String("product_id", id),
		zap.String("merchant_id", merchantID))

	return nil
}
