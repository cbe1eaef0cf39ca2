package service

import (
	"strings"
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClientService handles clients, deliveries, payments and receivables.
type ClientService struct {
	clientRepo   domain.ClientRepository
	deliveryRepo domain.DeliveryRepository
	paymentRepo  domain.PaymentRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo domain.ClientRepository, deliveryRepo domain.DeliveryRepository, paymentRepo domain.PaymentRepository) *ClientService {
	return &ClientService{
		clientRepo:   clientRepo,
		deliveryRepo: deliveryRepo,
		paymentRepo:  paymentRepo,
	}
}

// CreateClient registers a new active client.
func (s *ClientService) CreateClient(name string) (*domain.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxClientNameLength {
		return nil, domain.ErrNameTooLong
	}
	return s.clientRepo.Create(&domain.Client{Name: name, Active: true})
}

// ListClients returns clients, optionally including disabled ones.
func (s *ClientService) ListClients(includeInactive bool) ([]*domain.Client, error) {
	return s.clientRepo.List(includeInactive)
}

// SetActive soft-enables or soft-disables a client. Clients are never
// deleted; their history keeps feeding receivables.
func (s *ClientService) SetActive(id int32, active bool) (*domain.Client, error) {
	return s.clientRepo.SetActive(id, active)
}

// SubmitDeliveryInput holds the input for recording a client delivery
type SubmitDeliveryInput struct {
	Date        time.Time
	ClientID    int32
	BreadType   domain.BreadType
	Units       int64
	PerThousand int64
	Method      domain.PaymentMethod
	Account     *domain.Account
}

// SubmitDelivery records an immutable delivery. Revenue is derived from the
// per-thousand basis at creation. A cash delivery requires an account and
// emits exactly one movement crediting it, atomically with the insert; a
// credit delivery must not name an account and only grows the receivable.
func (s *ClientService) SubmitDelivery(input SubmitDeliveryInput) (*domain.ClientDelivery, error) {
	if !input.BreadType.IsValid() {
		return nil, domain.ErrInvalidBreadType
	}
	if !input.Method.IsValid() {
		return nil, domain.ErrInvalidPaymentMethod
	}
	if input.Units < 0 || input.PerThousand < 0 {
		return nil, domain.ErrNegativeValue
	}

	switch input.Method {
	case domain.PaymentMethodCash:
		if input.Account == nil {
			return nil, domain.ErrAccountRequired
		}
		if !input.Account.IsValid() {
			return nil, domain.ErrInvalidAccount
		}
	case domain.PaymentMethodCredit:
		if input.Account != nil {
			return nil, domain.ErrAccountNotApplicable
		}
	}

	client, err := s.clientRepo.GetByID(input.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.Active {
		return nil, domain.ErrClientInactive
	}

	delivery := &domain.ClientDelivery{
		ID:           uuid.New(),
		DeliveryDate: util.DateOnly(input.Date),
		ClientID:     input.ClientID,
		BreadType:    input.BreadType,
		Units:        input.Units,
		PerThousand:  input.PerThousand,
		Revenue:      RevenueFromThousand(input.Units, input.PerThousand),
		Method:       input.Method,
	}

	var movement *domain.MoneyMovement
	if input.Method == domain.PaymentMethodCash {
		account := *input.Account
		delivery.Account = &account
		if !delivery.Revenue.IsZero() {
			sourceID := delivery.ID
			movement = &domain.MoneyMovement{
				MovementDate: delivery.DeliveryDate,
				Account:      account,
				Amount:       delivery.Revenue,
				Reason:       domain.ReasonClientDelivery,
				SourceID:     &sourceID,
			}
		}
	}

	return s.deliveryRepo.Create(delivery, movement)
}

// SubmitPaymentInput holds the input for recording a client payment
type SubmitPaymentInput struct {
	Date     time.Time
	ClientID int32
	Amount   decimal.Decimal
	Account  domain.Account
	Note     *string
}

// SubmitPayment records an immutable payment from a client. The amount must
// be positive; the payment always emits exactly one movement crediting the
// account, atomically with the insert.
func (s *ClientService) SubmitPayment(input SubmitPaymentInput) (*domain.ClientPayment, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if !input.Account.IsValid() {
		return nil, domain.ErrInvalidAccount
	}

	var note *string
	if input.Note != nil {
		trimmed := strings.TrimSpace(*input.Note)
		if trimmed != "" {
			if len(trimmed) > domain.MaxNoteLength {
				return nil, domain.ErrNoteTooLong
			}
			note = &trimmed
		}
	}

	if _, err := s.clientRepo.GetByID(input.ClientID); err != nil {
		return nil, err
	}

	payment := &domain.ClientPayment{
		ID:          uuid.New(),
		PaymentDate: util.DateOnly(input.Date),
		ClientID:    input.ClientID,
		Amount:      input.Amount,
		Account:     input.Account,
		Note:        note,
	}

	sourceID := payment.ID
	movement := &domain.MoneyMovement{
		MovementDate: payment.PaymentDate,
		Account:      payment.Account,
		Amount:       payment.Amount,
		Reason:       domain.ReasonClientPayment,
		SourceID:     &sourceID,
	}

	return s.paymentRepo.Create(payment, movement)
}

// OutstandingRow is one client's receivable position.
type OutstandingRow struct {
	Client      *domain.Client  `json:"client"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// ReceivablesTable returns every client's outstanding balance: credit-method
// delivery revenue minus payments. Negative figures (overpayment or
// over-credit) are reported, not rejected.
func (s *ClientService) ReceivablesTable() ([]*OutstandingRow, error) {
	clients, err := s.clientRepo.List(true)
	if err != nil {
		return nil, err
	}

	creditTotals, err := s.deliveryRepo.SumCreditRevenueByClient()
	if err != nil {
		return nil, err
	}
	paymentTotals, err := s.paymentRepo.SumByClient()
	if err != nil {
		return nil, err
	}

	credit := make(map[int32]decimal.Decimal, len(creditTotals))
	for _, row := range creditTotals {
		credit[row.ClientID] = row.Amount
	}
	paid := make(map[int32]decimal.Decimal, len(paymentTotals))
	for _, row := range paymentTotals {
		paid[row.ClientID] = row.Amount
	}

	rows := make([]*OutstandingRow, len(clients))
	for i, client := range clients {
		rows[i] = &OutstandingRow{
			Client:      client,
			Outstanding: credit[client.ID].Sub(paid[client.ID]),
		}
	}
	return rows, nil
}

// Outstanding returns one client's receivable balance.
func (s *ClientService) Outstanding(clientID int32) (decimal.Decimal, error) {
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		return decimal.Zero, err
	}

	rows, err := s.ReceivablesTable()
	if err != nil {
		return decimal.Zero, err
	}
	for _, row := range rows {
		if row.Client.ID == clientID {
			return row.Outstanding, nil
		}
	}
	return decimal.Zero, nil
}

// GrowthResult compares a client's delivery revenue across two adjacent
// windows.
type GrowthResult struct {
	ClientID      int32           `json:"clientId"`
	WindowDays    int             `json:"windowDays"`
	RecentRevenue decimal.Decimal `json:"recentRevenue"`
	PriorRevenue  decimal.Decimal `json:"priorRevenue"`
	Difference    decimal.Decimal `json:"difference"`
	Percent       decimal.Decimal `json:"percent"`
}

// Growth compares the client's summed delivery revenue (credit and cash) in
// the most recent windowDays against the preceding window of equal length.
// The percentage is reported as zero when the prior window is zero.
func (s *ClientService) Growth(clientID int32, windowDays int, now time.Time) (*GrowthResult, error) {
	if windowDays <= 0 {
		return nil, domain.ErrInvalidWindow
	}
	if _, err := s.clientRepo.GetByID(clientID); err != nil {
		return nil, err
	}

	recentFrom, recentTo, priorFrom, priorTo := util.RecentWindows(now, windowDays)

	recent, err := s.deliveryRepo.SumRevenueInRange(clientID, recentFrom, recentTo)
	if err != nil {
		return nil, err
	}
	prior, err := s.deliveryRepo.SumRevenueInRange(clientID, priorFrom, priorTo)
	if err != nil {
		return nil, err
	}

	result := &GrowthResult{
		ClientID:      clientID,
		WindowDays:    windowDays,
		RecentRevenue: recent,
		PriorRevenue:  prior,
		Difference:    recent.Sub(prior),
	}
	if !prior.IsZero() {
		result.Percent = result.Difference.Div(prior).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return result, nil
}
