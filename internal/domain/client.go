package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCredit PaymentMethod = "credit"
)

// IsValid reports whether the payment method is cash or credit.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCredit
}

// Client is a delivery customer. Clients are soft-disabled via the active
// flag and never deleted.
type Client struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientDelivery is one immutable delivery of bread to a client. Revenue is
// derived from the per-thousand pricing basis at creation; a cash delivery
// emits exactly one ledger movement crediting the chosen account.
type ClientDelivery struct {
	ID           uuid.UUID       `json:"id"`
	DeliveryDate time.Time       `json:"deliveryDate"`
	ClientID     int32           `json:"clientId"`
	BreadType    BreadType       `json:"breadType"`
	Units        int64           `json:"units"`
	PerThousand  int64           `json:"perThousand"`
	Revenue      decimal.Decimal `json:"revenue"`
	Method       PaymentMethod   `json:"method"`
	Account      *Account        `json:"account,omitempty"` // set iff method is cash
	CreatedAt    time.Time       `json:"createdAt"`
}

// ClientPayment is one immutable payment received from a client. It always
// emits exactly one ledger movement and reduces the client's outstanding
// receivable by its amount.
type ClientPayment struct {
	ID          uuid.UUID       `json:"id"`
	PaymentDate time.Time       `json:"paymentDate"`
	ClientID    int32           `json:"clientId"`
	Amount      decimal.Decimal `json:"amount"`
	Account     Account         `json:"account"`
	Note        *string         `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ClientAmount is a per-client aggregate used by receivables reporting.
type ClientAmount struct {
	ClientID int32
	Amount   decimal.Decimal
}

type ClientRepository interface {
	Create(client *Client) (*Client, error)
	GetByID(id int32) (*Client, error)
	List(includeInactive bool) ([]*Client, error)
	SetActive(id int32, active bool) (*Client, error)
}

type DeliveryRepository interface {
	// Create inserts the delivery and, for cash deliveries, its single
	// movement in one transaction.
	Create(delivery *ClientDelivery, movement *MoneyMovement) (*ClientDelivery, error)
	ListByClient(clientID int32) ([]*ClientDelivery, error)
	// SumCreditRevenueByClient totals credit-method delivery revenue per
	// client across all dates.
	SumCreditRevenueByClient() ([]*ClientAmount, error)
	// SumRevenueInRange totals delivery revenue (both methods) for a client
	// in [from, to].
	SumRevenueInRange(clientID int32, from, to time.Time) (decimal.Decimal, error)
}

type PaymentRepository interface {
	// Create inserts the payment and its single movement in one transaction.
	Create(payment *ClientPayment, movement *MoneyMovement) (*ClientPayment, error)
	ListByClient(clientID int32) ([]*ClientPayment, error)
	// SumByClient totals payments per client across all dates.
	SumByClient() ([]*ClientAmount, error)
}
