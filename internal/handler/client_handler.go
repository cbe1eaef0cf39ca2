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

// ClientHandler handles client, delivery and payment HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
	publisher     websocket.EventPublisher
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *service.ClientService, publisher websocket.EventPublisher) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		publisher:     publisher,
	}
}

// CreateClientRequest represents the create client request body
type CreateClientRequest struct {
	Name string `json:"name"`
}

// SetClientActiveRequest represents the enable/disable client request body
type SetClientActiveRequest struct {
	Active bool `json:"active"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// CreateDeliveryRequest represents the record delivery request body
type CreateDeliveryRequest struct {
	Date        string  `json:"date"`
	ClientID    int32   `json:"clientId"`
	BreadType   string  `json:"breadType"`
	Units       int64   `json:"units"`
	PerThousand int64   `json:"perThousand"`
	Method      string  `json:"method"`
	Account     *string `json:"account,omitempty"`
}

// DeliveryResponse represents a client delivery in API responses
type DeliveryResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	ClientID    int32   `json:"clientId"`
	BreadType   string  `json:"breadType"`
	Units       int64   `json:"units"`
	PerThousand int64   `json:"perThousand"`
	Revenue     string  `json:"revenue"`
	Method      string  `json:"method"`
	Account     *string `json:"account,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// CreatePaymentRequest represents the record client payment request body
type CreatePaymentRequest struct {
	Date     string  `json:"date"`
	ClientID int32   `json:"clientId"`
	Amount   string  `json:"amount"`
	Account  string  `json:"account"`
	Note     *string `json:"note,omitempty"`
}

// PaymentResponse represents a client payment in API responses
type PaymentResponse struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	ClientID  int32   `json:"clientId"`
	Amount    string  `json:"amount"`
	Account   string  `json:"account"`
	Note      *string `json:"note,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// OutstandingResponse is one row of the receivables table.
type OutstandingResponse struct {
	Client      ClientResponse `json:"client"`
	Outstanding string         `json:"outstanding"`
}

// GrowthResponse reports a client's delivery revenue across two adjacent
// windows.
type GrowthResponse struct {
	ClientID      int32  `json:"clientId"`
	WindowDays    int    `json:"windowDays"`
	RecentRevenue string `json:"recentRevenue"`
	PriorRevenue  string `json:"priorRevenue"`
	Difference    string `json:"difference"`
	Percent       string `json:"percent"`
}

func clientToResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Active:    client.Active,
		CreatedAt: client.CreatedAt.Format(time.RFC3339),
		UpdatedAt: client.UpdatedAt.Format(time.RFC3339),
	}
}

func deliveryToResponse(delivery *domain.ClientDelivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:          delivery.ID.String(),
		Date:        delivery.DeliveryDate.Format(dateLayout),
		ClientID:    delivery.ClientID,
		BreadType:   string(delivery.BreadType),
		Units:       delivery.Units,
		PerThousand: delivery.PerThousand,
		Revenue:     delivery.Revenue.String(),
		Method:      string(delivery.Method),
		CreatedAt:   delivery.CreatedAt.Format(time.RFC3339),
	}
	if delivery.Account != nil {
		account := string(*delivery.Account)
		resp.Account = &account
	}
	return resp
}

func paymentToResponse(payment *domain.ClientPayment) PaymentResponse {
	return PaymentResponse{
		ID:        payment.ID.String(),
		Date:      payment.PaymentDate.Format(dateLayout),
		ClientID:  payment.ClientID,
		Amount:    payment.Amount.String(),
		Account:   string(payment.Account),
		Note:      payment.Note,
		CreatedAt: payment.CreatedAt.Format(time.RFC3339),
	}
}

func parseClientIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(id), nil
}

// CreateClient handles POST /api/v1/clients
func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	client, err := h.clientService.CreateClient(req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Must be at most 255 characters"},
			})
		}
		return NewInternalError(c, "Failed to create client")
	}

	resp := clientToResponse(client)
	h.publisher.Publish(websocket.ClientCreated(resp))

	return c.JSON(http.StatusCreated, resp)
}

// ListClients handles GET /api/v1/clients with an optional include_inactive
// flag.
func (h *ClientHandler) ListClients(c echo.Context) error {
	includeInactive := c.QueryParam("include_inactive") == "true"

	clients, err := h.clientService.ListClients(includeInactive)
	if err != nil {
		return NewInternalError(c, "Failed to list clients")
	}

	resp := make([]ClientResponse, len(clients))
	for i, client := range clients {
		resp[i] = clientToResponse(client)
	}
	return c.JSON(http.StatusOK, resp)
}

// SetActive handles PATCH /api/v1/clients/:id/active
func (h *ClientHandler) SetActive(c echo.Context) error {
	id, err := parseClientIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid id", []ValidationError{
			{Field: "id", Message: "Must be a whole number"},
		})
	}

	var req SetClientActiveRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	client, err := h.clientService.SetActive(id, req.Active)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		return NewInternalError(c, "Failed to update client")
	}

	resp := clientToResponse(client)
	h.publisher.Publish(websocket.ClientUpdated(resp))

	return c.JSON(http.StatusOK, resp)
}

// CreateDelivery handles POST /api/v1/deliveries
func (h *ClientHandler) CreateDelivery(c echo.Context) error {
	var req CreateDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	deliveryDate, err := parseDateParam(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	input := service.SubmitDeliveryInput{
		Date:        deliveryDate,
		ClientID:    req.ClientID,
		BreadType:   domain.BreadType(req.BreadType),
		Units:       req.Units,
		PerThousand: req.PerThousand,
		Method:      domain.PaymentMethod(req.Method),
	}
	if req.Account != nil {
		account := domain.Account(*req.Account)
		input.Account = &account
	}

	delivery, err := h.clientService.SubmitDelivery(input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return NewNotFoundError(c, "Client not found")
		case errors.Is(err, domain.ErrClientInactive):
			return NewConflictError(c, "Client is inactive")
		case errors.Is(err, domain.ErrInvalidBreadType):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "breadType", Message: "Must be one of: samoli, madour"},
			})
		case errors.Is(err, domain.ErrInvalidPaymentMethod):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "method", Message: "Must be one of: cash, credit"},
			})
		case errors.Is(err, domain.ErrAccountRequired):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "account", Message: "Account is required for cash deliveries"},
			})
		case errors.Is(err, domain.ErrAccountNotApplicable):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "account", Message: "Account must be omitted for credit deliveries"},
			})
		case errors.Is(err, domain.ErrInvalidAccount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "account", Message: "Account must be one of: cash, bank"},
			})
		case errors.Is(err, domain.ErrNegativeValue):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "units", Message: "Units and perThousand must not be negative"},
			})
		default:
			return NewInternalError(c, "Failed to create delivery")
		}
	}

	resp := deliveryToResponse(delivery)
	h.publisher.Publish(websocket.DeliveryCreated(resp))

	return c.JSON(http.StatusCreated, resp)
}

// CreatePayment handles POST /api/v1/payments
func (h *ClientHandler) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	paymentDate, err := parseDateParam(req.Date)
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

	payment, err := h.clientService.SubmitPayment(service.SubmitPaymentInput{
		Date:     paymentDate,
		ClientID: req.ClientID,
		Amount:   amount,
		Account:  domain.Account(req.Account),
		Note:     req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrClientNotFound):
			return NewNotFoundError(c, "Client not found")
		case errors.Is(err, domain.ErrInvalidAmount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Must be positive"},
			})
		case errors.Is(err, domain.ErrInvalidAccount):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "account", Message: "Account must be one of: cash, bank"},
			})
		case errors.Is(err, domain.ErrNoteTooLong):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "note", Message: "Must be at most 500 characters"},
			})
		default:
			return NewInternalError(c, "Failed to create payment")
		}
	}

	resp := paymentToResponse(payment)
	h.publisher.Publish(websocket.PaymentCreated(resp))

	return c.JSON(http.StatusCreated, resp)
}

// GetReceivables handles GET /api/v1/receivables
func (h *ClientHandler) GetReceivables(c echo.Context) error {
	rows, err := h.clientService.ReceivablesTable()
	if err != nil {
		return NewInternalError(c, "Failed to compute receivables")
	}

	resp := make([]OutstandingResponse, len(rows))
	for i, row := range rows {
		resp[i] = OutstandingResponse{
			Client:      clientToResponse(row.Client),
			Outstanding: row.Outstanding.String(),
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// GetGrowth handles GET /api/v1/clients/:id/growth with an optional
// window_days parameter, defaulting to 7.
func (h *ClientHandler) GetGrowth(c echo.Context) error {
	id, err := parseClientIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid id", []ValidationError{
			{Field: "id", Message: "Must be a whole number"},
		})
	}

	windowDays := 7
	if v := c.QueryParam("window_days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return NewValidationError(c, "Invalid window_days", []ValidationError{
				{Field: "window_days", Message: "Must be a whole number"},
			})
		}
		windowDays = parsed
	}

	growth, err := h.clientService.Growth(id, windowDays, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return NewNotFoundError(c, "Client not found")
		}
		if errors.Is(err, domain.ErrInvalidWindow) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "window_days", Message: "Must be positive"},
			})
		}
		return NewInternalError(c, "Failed to compute growth")
	}

	return c.JSON(http.StatusOK, GrowthResponse{
		ClientID:      growth.ClientID,
		WindowDays:    growth.WindowDays,
		RecentRevenue: growth.RecentRevenue.String(),
		PriorRevenue:  growth.PriorRevenue.String(),
		Difference:    growth.Difference.String(),
		Percent:       growth.Percent.String(),
	})
}
