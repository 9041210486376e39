package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/middleware"
	"github.com/suteetoe/quoteflow/pkg/logger"
)

type StoreHandler struct {
	stores StorefrontService
}

func NewStoreHandler(stores StorefrontService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

type updateStoreNameRequest struct {
	StoreName string `json:"store_name"`
}

// Get handles GET /api/stores/:storeName
func (h *StoreHandler) Get(c echo.Context) error {
	front, err := h.stores.ResolveStore(c.Request().Context(), c.Param("storeName"))
	if err != nil {
		return respondError(c, err, "Failed to resolve store")
	}
	return c.JSON(http.StatusOK, front)
}

// CheckAvailability handles GET /api/stores/check-availability?name=
func (h *StoreHandler) CheckAvailability(c echo.Context) error {
	name := strings.TrimSpace(c.QueryParam("name"))
	if name == "" {
		return badRequest(c, "Store name is required")
	}

	available, err := h.stores.CheckStoreNameAvailable(c.Request().Context(), name)
	if err != nil {
		return respondError(c, err, "Failed to check store name")
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available})
}

// UpdateName handles PUT /api/stores/update-name
func (h *StoreHandler) UpdateName(c echo.Context) error {
	log := logger.FromEcho(c)

	var req updateStoreNameRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse store name update", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	merchant, err := h.stores.ClaimStoreName(c.Request().Context(), middleware.MerchantID(c), req.StoreName)
	if err != nil {
		return respondError(c, err, "Failed to update store name")
	}

	log.Info("Store name updated", zap.String("merchant_id", merchant.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Store name updated successfully",
		"user":    merchant,
	})
}
