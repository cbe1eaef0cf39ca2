package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/service"
	"github.com/alshorouk/bakery-backend/internal/websocket"
)

// PurchaseHandler handles flour purchase HTTP requests
type PurchaseHandler struct {
	costingService *service.CostingService
	publisher      websocket.EventPublisher
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(costingService *service.CostingService, publisher websocket.EventPublisher) *PurchaseHandler {
	return &PurchaseHandler{
		costingService: costingService,
		publisher:      publisher,
	}
}

// CreatePurchaseRequest represents the record flour purchase request body
type CreatePurchaseRequest struct {
	Date        string  `json:"date"`
	Bags        int64   `json:"bags"`
	PricePerBag string  `json:"pricePerBag"`
	Note        *string `json:"note,omitempty"`
}

// FlourPurchaseResponse represents a flour purchase in API responses
type FlourPurchaseResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Bags        int64   `json:"bags"`
	PricePerBag string  `json:"pricePerBag"`
	Note        *string `json:"note,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// StockResponse reports stock on hand and the weighted-average bag cost as of
// a date.
type StockResponse struct {
	AsOf                string `json:"asOf"`
	BagsOnHand          int64  `json:"bagsOnHand"`
	WeightedAverageCost string `json:"weightedAverageCost"`
}

func purchaseToResponse(purchase *domain.FlourPurchase) FlourPurchaseResponse {
	return FlourPurchaseResponse{
		ID:          purchase.ID.String(),
		Date:        purchase.PurchaseDate.Format(dateLayout),
		Bags:        purchase.Bags,
		PricePerBag: purchase.PricePerBag.String(),
		Note:        purchase.Note,
		CreatedAt:   purchase.CreatedAt.Format(time.RFC3339),
	}
}

// CreatePurchase handles POST /api/v1/flour-purchases
func (h *PurchaseHandler) CreatePurchase(c echo.Context) error {
	var req CreatePurchaseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	purchaseDate, err := parseDateParam(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	pricePerBag, err := parseOptionalDecimal(req.PricePerBag)
	if err != nil {
		return NewValidationError(c, "Invalid pricePerBag", []ValidationError{
			{Field: "pricePerBag", Message: "Must be a valid decimal number"},
		})
	}

	purchase, err := h.costingService.SubmitPurchase(service.SubmitPurchaseInput{
		Date:        purchaseDate,
		Bags:        req.Bags,
		PricePerBag: pricePerBag,
		Note:        req.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "bags", Message: "Must be a positive whole number"},
			})
		}
		if errors.Is(err, domain.ErrNegativeValue) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "pricePerBag", Message: "Must not be negative"},
			})
		}
		if errors.Is(err, domain.ErrNoteTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "note", Message: "Must be at most 500 characters"},
			})
		}
		return NewInternalError(c, "Failed to create purchase")
	}

	resp := purchaseToResponse(purchase)
	h.publisher.Publish(websocket.FlourPurchaseCreated(resp))

	return c.JSON(http.StatusCreated, resp)
}

// ListPurchases handles GET /api/v1/flour-purchases
func (h *PurchaseHandler) ListPurchases(c echo.Context) error {
	purchases, err := h.costingService.ListPurchases()
	if err != nil {
		return NewInternalError(c, "Failed to list purchases")
	}

	resp := make([]FlourPurchaseResponse, len(purchases))
	for i, purchase := range purchases {
		resp[i] = purchaseToResponse(purchase)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetStock handles GET /api/v1/flour-purchases/stock with an optional as_of
// date, defaulting to today.
func (h *PurchaseHandler) GetStock(c echo.Context) error {
	asOf := time.Now()
	if v := c.QueryParam("as_of"); v != "" {
		parsed, err := parseDateParam(v)
		if err != nil {
			return NewValidationError(c, "Invalid as_of", []ValidationError{
				{Field: "as_of", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		asOf = parsed
	}

	bags, err := h.costingService.StockOnHand(asOf)
	if err != nil {
		return NewInternalError(c, "Failed to compute stock")
	}
	avg, err := h.costingService.WeightedAverageCost(asOf)
	if err != nil {
		return NewInternalError(c, "Failed to compute weighted average cost")
	}

	return c.JSON(http.StatusOK, StockResponse{
		AsOf:                asOf.Format(dateLayout),
		BagsOnHand:          bags,
		WeightedAverageCost: avg.String(),
	})
}
