package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/quoteflow/internal/middleware"
	"github.com/suteetoe/quoteflow/internal/service"
	"github.com/suteetoe/quoteflow/pkg/logger"
)

type QuoteHandler struct {
	quotes QuoteService
}

func NewQuoteHandler(quotes QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

type quoteItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type submitQuoteRequest struct {
	MerchantID    string             `json:"userId"`
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	CustomerPhone string             `json:"customerPhone"`
	Message       string             `json:"message"`
	Products      []quoteItemRequest `json:"products"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// Submit handles the anonymous POST /api/quote-requests
func (h *QuoteHandler) Submit(c echo.Context) error {
	log := logger.FromEcho(c)

	var req submitQuoteRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Failed to parse quote request", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	items := make([]service.ItemInput, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, service.ItemInput{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	id, err := h.quotes.SubmitQuoteRequest(c.Request().Context(), req.MerchantID, service.Customer{
		Name:    req.CustomerName,
		Email:   req.CustomerEmail,
		Phone:   req.CustomerPhone,
		Message: req.Message,
	}, items)
	if err != nil {
		return respondError(c, err, "Quote request submission failed")
	}

	log.Info("Quote request submitted", zap.String("request_id", id), zap.Int("items", len(items)))
	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Quote request created successfully",
		"request_id": id,
	})
}

// List handles GET /api/quote-requests?status=
func (h *QuoteHandler) List(c echo.Context) error {
	requests, err := h.quotes.ListQuoteRequests(c.Request().Context(), middleware.MerchantID(c), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err, "Failed to list quote requests")
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": requests})
}

// Get handles GET /api/quote-requests/:id
func (h *QuoteHandler) Get(c echo.Context) error {
	detail, err := h.quotes.GetQuoteRequestDetail(c.Request().Context(), middleware.MerchantID(c), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Failed to get quote request")
	}
	return c.JSON(http.StatusOK, echo.Map{"request": detail})
}

// UpdateStatus handles PUT /api/quote-requests/:id
func (h *QuoteHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Warn("Failed to parse status update", zap.Error(err))
		return badRequest(c, "invalid request")
	}

	if err := h.quotes.UpdateStatus(c.Request().Context(), middleware.MerchantID(c), c.Param("id"), req.Status); err != nil {
		return respondError(c, err, "Failed to update quote request")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Quote request updated successfully"})
}
