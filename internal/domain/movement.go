package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account string

const (
	AccountCash Account = "cash"
	AccountBank Account = "bank"
)

// Accounts lists the two ledger accounts in reporting order.
var Accounts = []Account{AccountCash, AccountBank}

// IsValid reports whether the account is one of the two known accounts.
func (a Account) IsValid() bool {
	return a == AccountCash || a == AccountBank
}

// Fixed reason strings for movements emitted by write operations. Each
// cash-affecting fact emits exactly one movement carrying one of these.
const (
	ReasonClientDelivery   = "client delivery (cash)"
	ReasonClientPayment    = "client payment"
	ReasonOwnerWithdrawal  = "owner withdrawal"
	ReasonOwnerRepayment   = "owner repayment"
	ReasonCapitalInjection = "capital injection"
	ReasonOwnerTransfer    = "owner transfer"
	ReasonDailyExpenses    = "daily expenses"
)

// MoneyMovement is a single signed, immutable ledger entry. Balances are
// derived by summing movements; entries are never edited or reversed, and
// corrections are recorded as new offsetting movements.
type MoneyMovement struct {
	ID           int64           `json:"id"`
	MovementDate time.Time       `json:"movementDate"`
	Account      Account         `json:"account"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason"`
	SourceID     *uuid.UUID      `json:"sourceId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// MovementFilter narrows movement listings.
type MovementFilter struct {
	Account   *Account
	StartDate *time.Time
	EndDate   *time.Time
}

type MovementRepository interface {
	Create(movement *MoneyMovement) (*MoneyMovement, error)
	List(filter *MovementFilter) ([]*MoneyMovement, error)
	SumByAccount(account Account, asOf *time.Time) (decimal.Decimal, error)
}
