package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/service"
	"github.com/alshorouk/bakery-backend/internal/websocket"
)

// OverheadHandler handles monthly overhead HTTP requests
type OverheadHandler struct {
	overheadService *service.OverheadService
	publisher       websocket.EventPublisher
}

// NewOverheadHandler creates a new OverheadHandler
func NewOverheadHandler(overheadService *service.OverheadService, publisher websocket.EventPublisher) *OverheadHandler {
	return &OverheadHandler{
		overheadService: overheadService,
		publisher:       publisher,
	}
}

// SetOverheadRequest represents the set monthly overhead request body
type SetOverheadRequest struct {
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

// OverheadResponse represents a monthly overhead setting in API responses
type OverheadResponse struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	UpdatedAt string `json:"updatedAt"`
}

func overheadToResponse(setting *domain.MonthlyOverhead) OverheadResponse {
	return OverheadResponse{
		Year:      setting.Year,
		Month:     int(setting.Month),
		Category:  string(setting.Category),
		Amount:    setting.Amount.String(),
		UpdatedAt: setting.UpdatedAt.Format(time.RFC3339),
	}
}

func parseYearMonthParams(c echo.Context) (int, time.Month, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return 0, 0, err
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return 0, 0, err
	}
	return year, time.Month(month), nil
}

// SetOverhead handles POST /api/v1/overheads
func (h *OverheadHandler) SetOverhead(c echo.Context) error {
	var req SetOverheadRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := parseOptionalDecimal(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	setting, err := h.overheadService.SetMonthly(req.Year, time.Month(req.Month), domain.OverheadCategory(req.Category), amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "category", Message: "Must be one of: rent, fuel"},
			})
		}
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be a valid year and month"},
			})
		}
		if errors.Is(err, domain.ErrNegativeValue) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Must not be negative"},
			})
		}
		return NewInternalError(c, "Failed to set overhead")
	}

	resp := overheadToResponse(setting)
	h.publisher.Publish(websocket.OverheadUpdated(resp))

	return c.JSON(http.StatusOK, resp)
}

// GetMonth handles GET /api/v1/overheads/:year/:month
func (h *OverheadHandler) GetMonth(c echo.Context) error {
	year, month, err := parseYearMonthParams(c)
	if err != nil {
		return NewValidationError(c, "Invalid year or month", []ValidationError{
			{Field: "year", Message: "Year and month must be whole numbers"},
		})
	}

	settings, err := h.overheadService.GetMonth(year, month)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMonth) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "month", Message: "Must be a valid year and month"},
			})
		}
		return NewInternalError(c, "Failed to get overheads")
	}

	resp := make([]OverheadResponse, len(settings))
	for i, setting := range settings {
		resp[i] = overheadToResponse(setting)
	}
	return c.JSON(http.StatusOK, resp)
}
