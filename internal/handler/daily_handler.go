package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/service"
	"github.com/alshorouk/bakery-backend/internal/websocket"
)

// DailyHandler handles daily record HTTP requests
type DailyHandler struct {
	dailyService *service.DailyService
	publisher    websocket.EventPublisher
}

// NewDailyHandler creates a new DailyHandler
func NewDailyHandler(dailyService *service.DailyService, publisher websocket.EventPublisher) *DailyHandler {
	return &DailyHandler{
		dailyService: dailyService,
		publisher:    publisher,
	}
}

// CreateRecordRequest represents the submit daily record request body
type CreateRecordRequest struct {
	Date              string           `json:"date"`
	SamoliUnits       int64            `json:"samoliUnits"`
	SamoliPerThousand int64            `json:"samoliPerThousand"`
	MadourUnits       int64            `json:"madourUnits"`
	MadourPerThousand int64            `json:"madourPerThousand"`
	FlourBags         int64            `json:"flourBags"`
	FlourBagPrice     string           `json:"flourBagPrice,omitempty"`
	Expenses          ExpensesRequest  `json:"expenses"`
	Returns           string           `json:"returns,omitempty"`
	Discounts         string           `json:"discounts,omitempty"`
	Withdrawal        *TransferRequest `json:"withdrawal,omitempty"`
	Repayment         *TransferRequest `json:"repayment,omitempty"`
	Injection         *TransferRequest `json:"injection,omitempty"`
	OtherTransfer     *TransferRequest `json:"otherTransfer,omitempty"`
	ExpenseAccount    *string          `json:"expenseAccount,omitempty"`
}

// DailyRecordResponse represents a daily record in API responses
type DailyRecordResponse struct {
	ID                string            `json:"id"`
	Date              string            `json:"date"`
	SamoliUnits       int64             `json:"samoliUnits"`
	SamoliPerThousand int64             `json:"samoliPerThousand"`
	MadourUnits       int64             `json:"madourUnits"`
	MadourPerThousand int64             `json:"madourPerThousand"`
	FlourBags         int64             `json:"flourBags"`
	FlourBagPrice     string            `json:"flourBagPrice"`
	Expenses          ExpensesResponse  `json:"expenses"`
	Returns           string            `json:"returns"`
	Discounts         string            `json:"discounts"`
	Withdrawal        *TransferResponse `json:"withdrawal,omitempty"`
	Repayment         *TransferResponse `json:"repayment,omitempty"`
	Injection         *TransferResponse `json:"injection,omitempty"`
	OtherTransfer     *TransferResponse `json:"otherTransfer,omitempty"`
	ExpenseAccount    *string           `json:"expenseAccount,omitempty"`
	CreatedAt         string            `json:"createdAt"`
}

// DailyTableResponse is the computed daily table plus its range totals.
type DailyTableResponse struct {
	Days         []ComputedDayResponse `json:"days"`
	TotalRevenue string                `json:"totalRevenue"`
	TotalExpense string                `json:"totalExpense"`
	NetProfit    string                `json:"netProfit"`
}

// ComputedDayResponse is a daily record with its derived financial figures
type ComputedDayResponse struct {
	Record           DailyRecordResponse `json:"record"`
	SamoliRevenue    string              `json:"samoliRevenue"`
	MadourRevenue    string              `json:"madourRevenue"`
	TotalRevenue     string              `json:"totalRevenue"`
	FlourCost        string              `json:"flourCost"`
	RentCharge       string              `json:"rentCharge"`
	FuelCharge       string              `json:"fuelCharge"`
	ExpenseLineTotal string              `json:"expenseLineTotal"`
	TotalExpense     string              `json:"totalExpense"`
	NetProfit        string              `json:"netProfit"`
}

func recordToResponse(record *domain.DailyRecord) DailyRecordResponse {
	resp := DailyRecordResponse{
		ID:                record.ID.String(),
		Date:              record.RecordDate.Format(dateLayout),
		SamoliUnits:       record.Samoli.Units,
		SamoliPerThousand: record.Samoli.PerThousand,
		MadourUnits:       record.Madour.Units,
		MadourPerThousand: record.Madour.PerThousand,
		FlourBags:         record.FlourBags,
		FlourBagPrice:     record.FlourBagPrice.String(),
		Expenses:          expensesToResponse(record.Expenses),
		Returns:           record.Returns.String(),
		Discounts:         record.Discounts.String(),
		Withdrawal:        transferToResponse(record.Withdrawal),
		Repayment:         transferToResponse(record.Repayment),
		Injection:         transferToResponse(record.Injection),
		OtherTransfer:     transferToResponse(record.OtherTransfer),
		CreatedAt:         record.CreatedAt.Format(time.RFC3339),
	}
	if record.ExpenseAccount != nil {
		account := string(*record.ExpenseAccount)
		resp.ExpenseAccount = &account
	}
	return resp
}

func computedDayToResponse(day *service.ComputedDay) ComputedDayResponse {
	return ComputedDayResponse{
		Record:           recordToResponse(day.Record),
		SamoliRevenue:    day.SamoliRevenue.String(),
		MadourRevenue:    day.MadourRevenue.String(),
		TotalRevenue:     day.TotalRevenue.String(),
		FlourCost:        day.FlourCost.String(),
		RentCharge:       day.RentCharge.String(),
		FuelCharge:       day.FuelCharge.String(),
		ExpenseLineTotal: day.ExpenseLineTotal.String(),
		TotalExpense:     day.TotalExpense.String(),
		NetProfit:        day.NetProfit.String(),
	}
}

func transferFromRequest(req *TransferRequest) (*service.TransferInput, *ValidationError) {
	if req == nil {
		return nil, nil
	}
	amount, err := parseOptionalDecimal(req.Amount)
	if err != nil {
		return nil, &ValidationError{Field: "amount", Message: "Must be a valid decimal number"}
	}
	return &service.TransferInput{
		Amount:  amount,
		Account: domain.Account(req.Account),
	}, nil
}

// CreateRecord handles POST /api/v1/records
func (h *DailyHandler) CreateRecord(c echo.Context) error {
	var req CreateRecordRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	recordDate, err := parseDateParam(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	flourBagPrice, err := parseOptionalDecimal(req.FlourBagPrice)
	if err != nil {
		return NewValidationError(c, "Invalid flourBagPrice", []ValidationError{
			{Field: "flourBagPrice", Message: "Must be a valid decimal number"},
		})
	}
	returns, err := parseOptionalDecimal(req.Returns)
	if err != nil {
		return NewValidationError(c, "Invalid returns", []ValidationError{
			{Field: "returns", Message: "Must be a valid decimal number"},
		})
	}
	discounts, err := parseOptionalDecimal(req.Discounts)
	if err != nil {
		return NewValidationError(c, "Invalid discounts", []ValidationError{
			{Field: "discounts", Message: "Must be a valid decimal number"},
		})
	}
	expenses, err := req.Expenses.toDomain()
	if err != nil {
		return NewValidationError(c, "Invalid expenses", []ValidationError{
			{Field: "expenses", Message: "Every line must be a valid decimal number"},
		})
	}

	input := service.SubmitRecordInput{
		Date:          recordDate,
		Samoli:        domain.ProductionLine{Units: req.SamoliUnits, PerThousand: req.SamoliPerThousand},
		Madour:        domain.ProductionLine{Units: req.MadourUnits, PerThousand: req.MadourPerThousand},
		FlourBags:     req.FlourBags,
		FlourBagPrice: flourBagPrice,
		Expenses:      expenses,
		Returns:       returns,
		Discounts:     discounts,
	}

	transfers := []struct {
		field  string
		req    *TransferRequest
		target **service.TransferInput
	}{
		{"withdrawal", req.Withdrawal, &input.Withdrawal},
		{"repayment", req.Repayment, &input.Repayment},
		{"injection", req.Injection, &input.Injection},
		{"otherTransfer", req.OtherTransfer, &input.OtherTransfer},
	}
	for _, t := range transfers {
		parsed, verr := transferFromRequest(t.req)
		if verr != nil {
			return NewValidationError(c, "Invalid "+t.field, []ValidationError{
				{Field: t.field + "." + verr.Field, Message: verr.Message},
			})
		}
		*t.target = parsed
	}

	if req.ExpenseAccount != nil {
		account := domain.Account(*req.ExpenseAccount)
		input.ExpenseAccount = &account
	}

	record, err := h.dailyService.SubmitRecord(input)
	if err != nil {
		if errors.Is(err, domain.ErrNegativeValue) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "record", Message: "Quantities, prices and transfer amounts must not be negative"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAccount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "account", Message: "Account must be one of: cash, bank"},
			})
		}
		return NewInternalError(c, "Failed to create record")
	}

	resp := recordToResponse(record)
	h.publisher.Publish(websocket.DailyRecordCreated(resp))

	return c.JSON(http.StatusCreated, resp)
}

// GetDailyTable handles GET /api/v1/records with optional from/to bounds
func (h *DailyHandler) GetDailyTable(c echo.Context) error {
	var from, to *time.Time
	if v := c.QueryParam("from"); v != "" {
		parsed, err := parseDateParam(v)
		if err != nil {
			return NewValidationError(c, "Invalid from", []ValidationError{
				{Field: "from", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		from = &parsed
	}
	if v := c.QueryParam("to"); v != "" {
		parsed, err := parseDateParam(v)
		if err != nil {
			return NewValidationError(c, "Invalid to", []ValidationError{
				{Field: "to", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		to = &parsed
	}

	days, err := h.dailyService.ComputeDailyTable(from, to)
	if err != nil {
		return NewInternalError(c, "Failed to compute daily table")
	}

	resp := DailyTableResponse{Days: make([]ComputedDayResponse, len(days))}
	totalRevenue, totalExpense := decimal.Zero, decimal.Zero
	for i, day := range days {
		resp.Days[i] = computedDayToResponse(day)
		totalRevenue = totalRevenue.Add(day.TotalRevenue)
		totalExpense = totalExpense.Add(day.TotalExpense)
	}
	resp.TotalRevenue = totalRevenue.String()
	resp.TotalExpense = totalExpense.String()
	resp.NetProfit = totalRevenue.Sub(totalExpense).String()

	return c.JSON(http.StatusOK, resp)
}

// DeleteRecord handles DELETE /api/v1/records/:id
func (h *DailyHandler) DeleteRecord(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid id", []ValidationError{
			{Field: "id", Message: "Must be a valid UUID"},
		})
	}

	if err := h.dailyService.DeleteRecord(id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return NewNotFoundError(c, "Record not found")
		}
		return NewInternalError(c, "Failed to delete record")
	}

	h.publisher.Publish(websocket.DailyRecordDeleted(map[string]string{"id": id.String()}))

	return c.NoContent(http.StatusNoContent)
}
