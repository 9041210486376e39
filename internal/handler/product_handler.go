package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/middleware"
	"github.com/suteetoe/quoteflow/internal/service"
	"github.com/suteetoe/quoteflow/pkg/logger"
)

type ProductHandler struct {
	catalog CatalogService
}

func NewProductHandler(catalog CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func productInput(c echo.Context) service.ProductInput {
	return service.ProductInput{
		Name:            c.FormValue("name"),
		Description:     c.FormValue("description"),
		Price:           c.FormValue("price"),
		MinQuantity:     c.FormValue("min_quantity"),
		ShippingCharges: c.FormValue("shipping_charges"),
		GSTAmount:       c.FormValue("gst_amount"),
		DeliveryTime:    c.FormValue("delivery_time"),
	}
}

// withImage opens the optional "image" part and passes it to fn. The part is closed afterwards.
func withImage(c echo.Context, fn func(*service.ImageUpload) error) error {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return fn(nil)
		}
		logger.FromEcho(c).Warn("Failed to read image upload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image upload", "field": "image"})
	}

	f, err := fh.Open()
	if err != nil {
		return respondError(c, err, "Failed to open image upload")
	}
	defer f.Close()

	return fn(&service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
}

// List handles GET /api/products
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context(), middleware.MerchantID(c))
	if err != nil {
		return respondError(c, err, "Failed to list products")
	}
	logger.FromEcho(c).Debug("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// Get handles GET /api/products/:id
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.catalog.GetProduct(c.Request().Context(), middleware.MerchantID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Failed to get product")
	}
	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

// Create handles POST /api/products. Accepts multipart or urlencoded forms.
func (h *ProductHandler) Create(c echo.Context) error {
	in := productInput(c)
	return withImage(c, func(img *service.ImageUpload) error {
		product, err := h.catalog.CreateProduct(c.Request().Context(), middleware.MerchantID(c), in, img)
		if err != nil {
			return respondError(c, err, "Failed to create product")
		}
		return c.JSON(http.StatusCreated, echo.Map{
			"message": "Product created successfully",
			"product": product,
		})
	})
}

// Update handles PUT /api/products/:id
func (h *ProductHandler) Update(c echo.Context) error {
	in := productInput(c)
	return withImage(c, func(img *service.ImageUpload) error {
		product, err := h.catalog.UpdateProduct(c.Request().Context(), middleware.MerchantID(c), c.Param("id"), in, img)
		if err != nil {
			return respondError(c, err, "Failed to update product")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Product updated successfully",
			"product": product,
		})
	})
}

// Delete handles DELETE /api/products/:id
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteProduct(c.Request().Context(), middleware.MerchantID(c), c.Param("id")); err != nil {
		return respondError(c, err, "Failed to delete product")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
