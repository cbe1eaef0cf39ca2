package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FlourPurchase is one immutable purchase of flour bags. Purchases feed the
// weighted-average cost and stock-on-hand figures.
type FlourPurchase struct {
	ID           uuid.UUID       `json:"id"`
	PurchaseDate time.Time       `json:"purchaseDate"`
	Bags         int64           `json:"bags"`
	PricePerBag  decimal.Decimal `json:"pricePerBag"`
	Note         *string         `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// PurchaseTotals aggregates purchases up to a cutoff date.
type PurchaseTotals struct {
	Bags int64
	Cost decimal.Decimal // sum of bags * price per bag
}

type FlourPurchaseRepository interface {
	Create(purchase *FlourPurchase) (*FlourPurchase, error)
	// List returns purchases ordered by date then insertion order.
	List() ([]*FlourPurchase, error)
	// TotalsAsOf aggregates bags and cost over purchases dated at or before
	// asOf. Zero totals when no purchases qualify.
	TotalsAsOf(asOf time.Time) (*PurchaseTotals, error)
}
