package testutil

import (
	"sort"
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockMovementRepository is a mock implementation of domain.MovementRepository
type MockMovementRepository struct {
	Movements []*domain.MoneyMovement
	NextID    int64
	CreateErr error
}

// NewMockMovementRepository creates a new MockMovementRepository
func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{NextID: 1}
}

// Create appends a movement
func (m *MockMovementRepository) Create(movement *domain.MoneyMovement) (*domain.MoneyMovement, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	movement.ID = m.NextID
	m.NextID++
	movement.CreatedAt = time.Now().UTC()
	m.Movements = append(m.Movements, movement)
	return movement, nil
}

// List returns movements matching the filter
func (m *MockMovementRepository) List(filter *domain.MovementFilter) ([]*domain.MoneyMovement, error) {
	var result []*domain.MoneyMovement
	for _, movement := range m.Movements {
		if filter != nil {
			if filter.Account != nil && movement.Account != *filter.Account {
				continue
			}
			if filter.StartDate != nil && movement.MovementDate.Before(*filter.StartDate) {
				continue
			}
			if filter.EndDate != nil && movement.MovementDate.After(*filter.EndDate) {
				continue
			}
		}
		result = append(result, movement)
	}
	return result, nil
}

// SumByAccount sums movement amounts for an account up to an optional cutoff
func (m *MockMovementRepository) SumByAccount(account domain.Account, asOf *time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, movement := range m.Movements {
		if movement.Account != account {
			continue
		}
		if asOf != nil && movement.MovementDate.After(*asOf) {
			continue
		}
		total = total.Add(movement.Amount)
	}
	return total, nil
}

// ByReason returns movements carrying the given reason (helper for tests)
func (m *MockMovementRepository) ByReason(reason string) []*domain.MoneyMovement {
	var result []*domain.MoneyMovement
	for _, movement := range m.Movements {
		if movement.Reason == reason {
			result = append(result, movement)
		}
	}
	return result
}

// MockDailyRecordRepository is a mock implementation of domain.DailyRecordRepository
type MockDailyRecordRepository struct {
	Records   []*domain.DailyRecord
	Movements *MockMovementRepository
	CreateErr error
}

// NewMockDailyRecordRepository creates a new MockDailyRecordRepository
func NewMockDailyRecordRepository() *MockDailyRecordRepository {
	return &MockDailyRecordRepository{Movements: NewMockMovementRepository()}
}

// AddRecord adds a record without emitting movements (helper for tests)
func (m *MockDailyRecordRepository) AddRecord(record *domain.DailyRecord) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.Records = append(m.Records, record)
}

// Create inserts the record and its movements; on error nothing is stored
func (m *MockDailyRecordRepository) Create(record *domain.DailyRecord, movements []*domain.MoneyMovement) (*domain.DailyRecord, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	for _, movement := range movements {
		if _, err := m.Movements.Create(movement); err != nil {
			return nil, err
		}
	}
	record.CreatedAt = time.Now().UTC()
	m.Records = append(m.Records, record)
	return record, nil
}

// GetByID retrieves a record by id
func (m *MockDailyRecordRepository) GetByID(id uuid.UUID) (*domain.DailyRecord, error) {
	for _, record := range m.Records {
		if record.ID == id {
			return record, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

// ListByDateRange returns records in range ordered by date then insertion order
func (m *MockDailyRecordRepository) ListByDateRange(from, to *time.Time) ([]*domain.DailyRecord, error) {
	var result []*domain.DailyRecord
	for _, record := range m.Records {
		if from != nil && record.RecordDate.Before(*from) {
			continue
		}
		if to != nil && record.RecordDate.After(*to) {
			continue
		}
		result = append(result, record)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RecordDate.Before(result[j].RecordDate)
	})
	return result, nil
}

// LastOfMonth returns the id of the month's last record
func (m *MockDailyRecordRepository) LastOfMonth(year int, month time.Month) (uuid.UUID, error) {
	var last *domain.DailyRecord
	for _, record := range m.Records {
		if record.RecordDate.Year() != year || record.RecordDate.Month() != month {
			continue
		}
		if last == nil || !record.RecordDate.Before(last.RecordDate) {
			last = record
		}
	}
	if last == nil {
		return uuid.Nil, domain.ErrRecordNotFound
	}
	return last.ID, nil
}

// SumBagsConsumed totals flour bags on records dated at or before asOf
func (m *MockDailyRecordRepository) SumBagsConsumed(asOf time.Time) (int64, error) {
	var total int64
	for _, record := range m.Records {
		if record.RecordDate.After(asOf) {
			continue
		}
		total += record.FlourBags
	}
	return total, nil
}

// Delete removes a record by id
func (m *MockDailyRecordRepository) Delete(id uuid.UUID) error {
	for i, record := range m.Records {
		if record.ID == id {
			m.Records = append(m.Records[:i], m.Records[i+1:]...)
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

// MockFlourPurchaseRepository is a mock implementation of domain.FlourPurchaseRepository
type MockFlourPurchaseRepository struct {
	Purchases []*domain.FlourPurchase
}

// NewMockFlourPurchaseRepository creates a new MockFlourPurchaseRepository
func NewMockFlourPurchaseRepository() *MockFlourPurchaseRepository {
	return &MockFlourPurchaseRepository{}
}

// AddPurchase adds a purchase (helper for tests)
func (m *MockFlourPurchaseRepository) AddPurchase(purchase *domain.FlourPurchase) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	m.Purchases = append(m.Purchases, purchase)
}

// Create inserts a purchase
func (m *MockFlourPurchaseRepository) Create(purchase *domain.FlourPurchase) (*domain.FlourPurchase, error) {
	purchase.ID = uuid.New()
	purchase.CreatedAt = time.Now().UTC()
	m.Purchases = append(m.Purchases, purchase)
	return purchase, nil
}

// List returns purchases ordered by date then insertion order
func (m *MockFlourPurchaseRepository) List() ([]*domain.FlourPurchase, error) {
	result := make([]*domain.FlourPurchase, len(m.Purchases))
	copy(result, m.Purchases)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PurchaseDate.Before(result[j].PurchaseDate)
	})
	return result, nil
}

// TotalsAsOf aggregates purchases dated at or before asOf
func (m *MockFlourPurchaseRepository) TotalsAsOf(asOf time.Time) (*domain.PurchaseTotals, error) {
	totals := &domain.PurchaseTotals{Cost: decimal.Zero}
	for _, purchase := range m.Purchases {
		if purchase.PurchaseDate.After(asOf) {
			continue
		}
		totals.Bags += purchase.Bags
		totals.Cost = totals.Cost.Add(purchase.PricePerBag.Mul(decimal.NewFromInt(purchase.Bags)))
	}
	return totals, nil
}

// MockOverheadRepository is a mock implementation of domain.OverheadRepository
type MockOverheadRepository struct {
	Settings map[overheadKey]*domain.MonthlyOverhead
}

type overheadKey struct {
	Year     int
	Month    time.Month
	Category domain.OverheadCategory
}

// NewMockOverheadRepository creates a new MockOverheadRepository
func NewMockOverheadRepository() *MockOverheadRepository {
	return &MockOverheadRepository{Settings: make(map[overheadKey]*domain.MonthlyOverhead)}
}

// Upsert stores a setting, overwriting any previous value for its key
func (m *MockOverheadRepository) Upsert(setting *domain.MonthlyOverhead) (*domain.MonthlyOverhead, error) {
	setting.UpdatedAt = time.Now().UTC()
	m.Settings[overheadKey{setting.Year, setting.Month, setting.Category}] = setting
	return setting, nil
}

// Get retrieves a setting by key
func (m *MockOverheadRepository) Get(year int, month time.Month, category domain.OverheadCategory) (*domain.MonthlyOverhead, error) {
	if setting, ok := m.Settings[overheadKey{year, month, category}]; ok {
		return setting, nil
	}
	return nil, domain.ErrOverheadNotFound
}

// GetMonth returns all settings for a month
func (m *MockOverheadRepository) GetMonth(year int, month time.Month) ([]*domain.MonthlyOverhead, error) {
	var result []*domain.MonthlyOverhead
	for _, category := range domain.OverheadCategories {
		if setting, ok := m.Settings[overheadKey{year, month, category}]; ok {
			result = append(result, setting)
		}
	}
	return result, nil
}

// MockClientRepository is a mock implementation of domain.ClientRepository
type MockClientRepository struct {
	Clients map[int32]*domain.Client
	NextID  int32
}

// NewMockClientRepository creates a new MockClientRepository
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		Clients: make(map[int32]*domain.Client),
		NextID:  1,
	}
}

// AddClient adds a client (helper for tests)
func (m *MockClientRepository) AddClient(client *domain.Client) {
	m.Clients[client.ID] = client
	if client.ID >= m.NextID {
		m.NextID = client.ID + 1
	}
}

// Create inserts a client
func (m *MockClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	client.ID = m.NextID
	m.NextID++
	client.CreatedAt = time.Now().UTC()
	client.UpdatedAt = client.CreatedAt
	m.Clients[client.ID] = client
	return client, nil
}

// GetByID retrieves a client by id
func (m *MockClientRepository) GetByID(id int32) (*domain.Client, error) {
	if client, ok := m.Clients[id]; ok {
		return client, nil
	}
	return nil, domain.ErrClientNotFound
}

// List returns clients ordered by id
func (m *MockClientRepository) List(includeInactive bool) ([]*domain.Client, error) {
	var result []*domain.Client
	for _, client := range m.Clients {
		if !includeInactive && !client.Active {
			continue
		}
		result = append(result, client)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// SetActive flips a client's active flag
func (m *MockClientRepository) SetActive(id int32, active bool) (*domain.Client, error) {
	client, ok := m.Clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	client.Active = active
	client.UpdatedAt = time.Now().UTC()
	return client, nil
}

// MockDeliveryRepository is a mock implementation of domain.DeliveryRepository
type MockDeliveryRepository struct {
	Deliveries []*domain.ClientDelivery
	Movements  *MockMovementRepository
	CreateErr  error
}

// NewMockDeliveryRepository creates a new MockDeliveryRepository
func NewMockDeliveryRepository() *MockDeliveryRepository {
	return &MockDeliveryRepository{Movements: NewMockMovementRepository()}
}

// AddDelivery adds a delivery without emitting a movement (helper for tests)
func (m *MockDeliveryRepository) AddDelivery(delivery *domain.ClientDelivery) {
	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}
	m.Deliveries = append(m.Deliveries, delivery)
}

// Create inserts the delivery and its movement; on error nothing is stored
func (m *MockDeliveryRepository) Create(delivery *domain.ClientDelivery, movement *domain.MoneyMovement) (*domain.ClientDelivery, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if movement != nil {
		if _, err := m.Movements.Create(movement); err != nil {
			return nil, err
		}
	}
	delivery.CreatedAt = time.Now().UTC()
	m.Deliveries = append(m.Deliveries, delivery)
	return delivery, nil
}

// ListByClient returns a client's deliveries
func (m *MockDeliveryRepository) ListByClient(clientID int32) ([]*domain.ClientDelivery, error) {
	var result []*domain.ClientDelivery
	for _, delivery := range m.Deliveries {
		if delivery.ClientID == clientID {
			result = append(result, delivery)
		}
	}
	return result, nil
}

// SumCreditRevenueByClient totals credit delivery revenue per client
func (m *MockDeliveryRepository) SumCreditRevenueByClient() ([]*domain.ClientAmount, error) {
	totals := make(map[int32]decimal.Decimal)
	var order []int32
	for _, delivery := range m.Deliveries {
		if delivery.Method != domain.PaymentMethodCredit {
			continue
		}
		if _, ok := totals[delivery.ClientID]; !ok {
			order = append(order, delivery.ClientID)
		}
		totals[delivery.ClientID] = totals[delivery.ClientID].Add(delivery.Revenue)
	}
	result := make([]*domain.ClientAmount, len(order))
	for i, id := range order {
		result[i] = &domain.ClientAmount{ClientID: id, Amount: totals[id]}
	}
	return result, nil
}

// SumRevenueInRange totals a client's delivery revenue in [from, to]
func (m *MockDeliveryRepository) SumRevenueInRange(clientID int32, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, delivery := range m.Deliveries {
		if delivery.ClientID != clientID {
			continue
		}
		if delivery.DeliveryDate.Before(from) || delivery.DeliveryDate.After(to) {
			continue
		}
		total = total.Add(delivery.Revenue)
	}
	return total, nil
}

// MockPaymentRepository is a mock implementation of domain.PaymentRepository
type MockPaymentRepository struct {
	Payments  []*domain.ClientPayment
	Movements *MockMovementRepository
	CreateErr error
}

// NewMockPaymentRepository creates a new MockPaymentRepository
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{Movements: NewMockMovementRepository()}
}

// AddPayment adds a payment without emitting a movement (helper for tests)
func (m *MockPaymentRepository) AddPayment(payment *domain.ClientPayment) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	m.Payments = append(m.Payments, payment)
}

// Create inserts the payment and its movement; on error nothing is stored
func (m *MockPaymentRepository) Create(payment *domain.ClientPayment, movement *domain.MoneyMovement) (*domain.ClientPayment, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if movement != nil {
		if _, err := m.Movements.Create(movement); err != nil {
			return nil, err
		}
	}
	payment.CreatedAt = time.Now().UTC()
	m.Payments = append(m.Payments, payment)
	return payment, nil
}

// ListByClient returns a client's payments
func (m *MockPaymentRepository) ListByClient(clientID int32) ([]*domain.ClientPayment, error) {
	var result []*domain.ClientPayment
	for _, payment := range m.Payments {
		if payment.ClientID == clientID {
			result = append(result, payment)
		}
	}
	return result, nil
}

// SumByClient totals payments per client
func (m *MockPaymentRepository) SumByClient() ([]*domain.ClientAmount, error) {
	totals := make(map[int32]decimal.Decimal)
	var order []int32
	for _, payment := range m.Payments {
		if _, ok := totals[payment.ClientID]; !ok {
			order = append(order, payment.ClientID)
		}
		totals[payment.ClientID] = totals[payment.ClientID].Add(payment.Amount)
	}
	result := make([]*domain.ClientAmount, len(order))
	for i, id := range order {
		result[i] = &domain.ClientAmount{ClientID: id, Amount: totals[id]}
	}
	return result, nil
}
