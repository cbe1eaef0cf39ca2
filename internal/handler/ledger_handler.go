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

// LedgerHandler handles money movement HTTP requests
type LedgerHandler struct {
	ledgerService *service.LedgerService
	publisher     websocket.EventPublisher
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *service.LedgerService, publisher websocket.EventPublisher) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		publisher:     publisher,
	}
}

// CreateMovementRequest represents the record movement request body
type CreateMovementRequest struct {
	Date    string `json:"date"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
	Reason  string `json:"reason"`
}

// MovementResponse represents a ledger movement in API responses
type MovementResponse struct {
	ID        int64   `json:"id"`
	Date      string  `json:"date"`
	Account   string  `json:"account"`
	Amount    string  `json:"amount"`
	Reason    string  `json:"reason"`
	SourceID  *string `json:"sourceId,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// BalancesResponse reports the derived balance of each account.
type BalancesResponse struct {
	Cash string `json:"cash"`
	Bank string `json:"bank"`
}

func movementToResponse(movement *domain.MoneyMovement) MovementResponse {
	resp := MovementResponse{
		ID:        movement.ID,
		Date:      movement.MovementDate.Format(dateLayout),
		Account:   string(movement.Account),
		Amount:    movement.Amount.String(),
		Reason:    movement.Reason,
		CreatedAt: movement.CreatedAt.Format(time.RFC3339),
	}
	if movement.SourceID != nil {
		id := movement.SourceID.String()
		resp.SourceID = &id
	}
	return resp
}

// CreateMovement handles POST /api/v1/movements for manual adjustments.
// Corrections are new offsetting entries; existing movements are never
// edited.
func (h *LedgerHandler) CreateMovement(c echo.Context) error {
	var req CreateMovementRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	movementDate, err := parseDateParam(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}
	amount, err := parseOptionalDecimal(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	movement, err := h.ledgerService.RecordMovement(service.RecordMovementInput{
		Date:    movementDate,
		Account: domain.Account(req.Account),
		Amount:  amount,
		Reason:  req.Reason,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAccount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "account", Message: "Account must be one of: cash, bank"},
			})
		}
		if errors.Is(err, domain.ErrReasonRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "reason", Message: "Reason is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "reason", Message: "Must be at most 255 characters"},
			})
		}
		return NewInternalError(c, "Failed to record movement")
	}
	if movement == nil {
		// Zero amounts are accepted but produce no ledger entry.
		return c.NoContent(http.StatusNoContent)
	}

	resp := movementToResponse(movement)
	h.publisher.Publish(websocket.MovementCreated(resp))

	return c.JSON(http.StatusCreated, resp)
}

// ListMovements handles GET /api/v1/movements with optional account/from/to
// filters.
func (h *LedgerHandler) ListMovements(c echo.Context) error {
	filter := &domain.MovementFilter{}
	if v := c.QueryParam("account"); v != "" {
		account := domain.Account(v)
		filter.Account = &account
	}
	if v := c.QueryParam("from"); v != "" {
		parsed, err := parseDateParam(v)
		if err != nil {
			return NewValidationError(c, "Invalid from", []ValidationError{
				{Field: "from", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filter.StartDate = &parsed
	}
	if v := c.QueryParam("to"); v != "" {
		parsed, err := parseDateParam(v)
		if err != nil {
			return NewValidationError(c, "Invalid to", []ValidationError{
				{Field: "to", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		filter.EndDate = &parsed
	}

	movements, err := h.ledgerService.Movements(filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAccount) {
			return NewValidationError(c, "Invalid account", []ValidationError{
				{Field: "account", Message: "Account must be one of: cash, bank"},
			})
		}
		return NewInternalError(c, "Failed to list movements")
	}

	resp := make([]MovementResponse, len(movements))
	for i, movement := range movements {
		resp[i] = movementToResponse(movement)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetBalances handles GET /api/v1/balances
func (h *LedgerHandler) GetBalances(c echo.Context) error {
	balances, err := h.ledgerService.Balances()
	if err != nil {
		return NewInternalError(c, "Failed to compute balances")
	}

	return c.JSON(http.StatusOK, BalancesResponse{
		Cash: balances[domain.AccountCash].String(),
		Bank: balances[domain.AccountBank].String(),
	})
}
