package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BreadType string

const (
	BreadTypeSamoli BreadType = "samoli"
	BreadTypeMadour BreadType = "madour"
)

// IsValid reports whether the bread type is one of the two produced types.
func (b BreadType) IsValid() bool {
	return b == BreadTypeSamoli || b == BreadTypeMadour
}

// ProductionLine is one bread type's daily output with its per-thousand
// pricing basis ("how many units equal 1000 currency units").
type ProductionLine struct {
	Units       int64 `json:"units"`
	PerThousand int64 `json:"perThousand"`
}

// ExpenseLines are the cash cost line items entered for a day. All values are
// non-negative; flour costing and allocated overhead are derived separately.
type ExpenseLines struct {
	FlourExtra  decimal.Decimal `json:"flourExtra"`
	Yeast       decimal.Decimal `json:"yeast"`
	Salt        decimal.Decimal `json:"salt"`
	Oil         decimal.Decimal `json:"oil"`
	Packaging   decimal.Decimal `json:"packaging"`
	Gas         decimal.Decimal `json:"gas"`
	Electricity decimal.Decimal `json:"electricity"`
	Water       decimal.Decimal `json:"water"`
	Salaries    decimal.Decimal `json:"salaries"`
	Maintenance decimal.Decimal `json:"maintenance"`
	Transport   decimal.Decimal `json:"transport"`
	Petty       decimal.Decimal `json:"petty"`
	Other       decimal.Decimal `json:"other"`
}

func (e ExpenseLines) items() []decimal.Decimal {
	return []decimal.Decimal{
		e.FlourExtra, e.Yeast, e.Salt, e.Oil, e.Packaging,
		e.Gas, e.Electricity, e.Water, e.Salaries, e.Maintenance,
		e.Transport, e.Petty, e.Other,
	}
}

// Total sums all expense line items.
func (e ExpenseLines) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range e.items() {
		total = total.Add(v)
	}
	return total
}

// HasNegative reports whether any individual line item is negative.
func (e ExpenseLines) HasNegative() bool {
	for _, v := range e.items() {
		if v.IsNegative() {
			return true
		}
	}
	return false
}

// OwnerTransfer is a financing movement entered alongside a daily record. It
// affects an account balance only, never revenue or expense.
type OwnerTransfer struct {
	Amount  decimal.Decimal `json:"amount"`
	Account Account         `json:"account"`
}

// DailyRecord is one submitted day of operations. Multiple records per
// calendar date are legal and are summed independently. Records are never
// updated in place; they are created once and are deletable by id.
type DailyRecord struct {
	ID             uuid.UUID       `json:"id"`
	RecordDate     time.Time       `json:"recordDate"`
	Samoli         ProductionLine  `json:"samoli"`
	Madour         ProductionLine  `json:"madour"`
	FlourBags      int64           `json:"flourBags"`
	FlourBagPrice  decimal.Decimal `json:"flourBagPrice"` // manual fallback when no purchase history
	Expenses       ExpenseLines    `json:"expenses"`
	Returns        decimal.Decimal `json:"returns"`   // informational, not subtracted from revenue
	Discounts      decimal.Decimal `json:"discounts"` // informational
	Withdrawal     *OwnerTransfer  `json:"withdrawal,omitempty"`
	Repayment      *OwnerTransfer  `json:"repayment,omitempty"`
	Injection      *OwnerTransfer  `json:"injection,omitempty"`
	OtherTransfer  *OwnerTransfer  `json:"otherTransfer,omitempty"` // amount may be signed
	ExpenseAccount *Account        `json:"expenseAccount,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type DailyRecordRepository interface {
	// Create inserts the record and its movements in a single transaction;
	// if any movement insert fails the record insert fails with it.
	Create(record *DailyRecord, movements []*MoneyMovement) (*DailyRecord, error)
	GetByID(id uuid.UUID) (*DailyRecord, error)
	// ListByDateRange returns records ordered by date then insertion order.
	// Nil bounds are open.
	ListByDateRange(from, to *time.Time) ([]*DailyRecord, error)
	// LastOfMonth returns the id of the month's last record (max date, then
	// latest inserted), or ErrRecordNotFound when the month is empty.
	LastOfMonth(year int, month time.Month) (uuid.UUID, error)
	// SumBagsConsumed totals flour bags consumed on records dated at or
	// before asOf.
	SumBagsConsumed(asOf time.Time) (int64, error)
	Delete(id uuid.UUID) error
}
