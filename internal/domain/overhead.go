package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OverheadCategory string

const (
	OverheadRent OverheadCategory = "rent"
	OverheadFuel OverheadCategory = "fuel"
)

// OverheadCategories lists the allocatable monthly fixed cost categories.
var OverheadCategories = []OverheadCategory{OverheadRent, OverheadFuel}

// IsValid reports whether the category is a known overhead category.
func (c OverheadCategory) IsValid() bool {
	return c == OverheadRent || c == OverheadFuel
}

// MonthlyOverhead is one monthly fixed cost amount keyed by (year, month,
// category). Writes are upserts; the latest write for a key wins.
type MonthlyOverhead struct {
	Year      int              `json:"year"`
	Month     time.Month       `json:"month"`
	Category  OverheadCategory `json:"category"`
	Amount    decimal.Decimal  `json:"amount"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type OverheadRepository interface {
	Upsert(setting *MonthlyOverhead) (*MonthlyOverhead, error)
	// Get returns the setting for a key, or ErrOverheadNotFound.
	Get(year int, month time.Month, category OverheadCategory) (*MonthlyOverhead, error)
	// GetMonth returns all settings for a month, in category order.
	GetMonth(year int, month time.Month) ([]*MonthlyOverhead, error)
}
