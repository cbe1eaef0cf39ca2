package service

import (
	"strings"
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/util"
	"github.com/shopspring/decimal"
)

// CostingService maintains weighted-average flour costing and stock on hand
// from the purchase history.
type CostingService struct {
	purchaseRepo domain.FlourPurchaseRepository
	recordRepo   domain.DailyRecordRepository
}

// NewCostingService creates a new CostingService
func NewCostingService(purchaseRepo domain.FlourPurchaseRepository, recordRepo domain.DailyRecordRepository) *CostingService {
	return &CostingService{
		purchaseRepo: purchaseRepo,
		recordRepo:   recordRepo,
	}
}

// SubmitPurchaseInput holds the input for recording a flour purchase
type SubmitPurchaseInput struct {
	Date        time.Time
	Bags        int64
	PricePerBag decimal.Decimal
	Note        *string
}

// SubmitPurchase records an immutable flour purchase.
func (s *CostingService) SubmitPurchase(input SubmitPurchaseInput) (*domain.FlourPurchase, error) {
	if input.Bags <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if input.PricePerBag.IsNegative() {
		return nil, domain.ErrNegativeValue
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

	purchase := &domain.FlourPurchase{
		PurchaseDate: util.DateOnly(input.Date),
		Bags:         input.Bags,
		PricePerBag:  input.PricePerBag,
		Note:         note,
	}

	return s.purchaseRepo.Create(purchase)
}

// ListPurchases returns the purchase history in date order.
func (s *CostingService) ListPurchases() ([]*domain.FlourPurchase, error) {
	return s.purchaseRepo.List()
}

// WeightedAverageCost returns the weighted-average price per bag over all
// purchases dated at or before asOf, or zero when none exist. Purchases dated
// after asOf never affect the result.
func (s *CostingService) WeightedAverageCost(asOf time.Time) (decimal.Decimal, error) {
	totals, err := s.purchaseRepo.TotalsAsOf(util.DateOnly(asOf))
	if err != nil {
		return decimal.Zero, err
	}
	if totals.Bags == 0 {
		return decimal.Zero, nil
	}
	return totals.Cost.Div(decimal.NewFromInt(totals.Bags)), nil
}

// DailyFlourCost costs a record's flour consumption at the weighted average
// as of the record's date. When no purchase history exists and the record
// carries a non-zero manual bag price, that fallback price is used instead.
func (s *CostingService) DailyFlourCost(record *domain.DailyRecord) (decimal.Decimal, error) {
	if record.FlourBags == 0 {
		return decimal.Zero, nil
	}

	avg, err := s.WeightedAverageCost(record.RecordDate)
	if err != nil {
		return decimal.Zero, err
	}

	bags := decimal.NewFromInt(record.FlourBags)
	cost := bags.Mul(avg)
	if cost.IsZero() && !record.FlourBagPrice.IsZero() {
		cost = bags.Mul(record.FlourBagPrice)
	}
	return cost, nil
}

// StockOnHand returns bags purchased minus bags consumed up to asOf. A
// negative figure signals consumption beyond recorded purchases; it is
// reported, not prevented.
func (s *CostingService) StockOnHand(asOf time.Time) (int64, error) {
	cutoff := util.DateOnly(asOf)

	totals, err := s.purchaseRepo.TotalsAsOf(cutoff)
	if err != nil {
		return 0, err
	}
	consumed, err := s.recordRepo.SumBagsConsumed(cutoff)
	if err != nil {
		return 0, err
	}
	return totals.Bags - consumed, nil
}
