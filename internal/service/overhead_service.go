package service

import (
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/util"
	"github.com/shopspring/decimal"
)

// OverheadService converts monthly fixed costs (rent, fuel) into per-day
// charges.
//
// Allocation policy: every record in a month is charged
// floor(monthly / daysInMonth); the month's last record additionally carries
// the remainder, so any month with at least one record recovers the
// configured amount exactly. The policy applies uniformly to all categories.
type OverheadService struct {
	overheadRepo domain.OverheadRepository
	recordRepo   domain.DailyRecordRepository
}

// NewOverheadService creates a new OverheadService
func NewOverheadService(overheadRepo domain.OverheadRepository, recordRepo domain.DailyRecordRepository) *OverheadService {
	return &OverheadService{
		overheadRepo: overheadRepo,
		recordRepo:   recordRepo,
	}
}

// SetMonthly upserts the monthly amount for (year, month, category).
func (s *OverheadService) SetMonthly(year int, month time.Month, category domain.OverheadCategory, amount decimal.Decimal) (*domain.MonthlyOverhead, error) {
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if year < 1 || month < time.January || month > time.December {
		return nil, domain.ErrInvalidMonth
	}
	if amount.IsNegative() {
		return nil, domain.ErrNegativeValue
	}

	return s.overheadRepo.Upsert(&domain.MonthlyOverhead{
		Year:     year,
		Month:    month,
		Category: category,
		Amount:   amount,
	})
}

// GetMonth returns the configured settings for a month.
func (s *OverheadService) GetMonth(year int, month time.Month) ([]*domain.MonthlyOverhead, error) {
	if year < 1 || month < time.January || month > time.December {
		return nil, domain.ErrInvalidMonth
	}
	return s.overheadRepo.GetMonth(year, month)
}

// Allocation is a month's per-day charge split into the floor share and the
// remainder carried by the month's last record.
type Allocation struct {
	PerDay    decimal.Decimal
	Remainder decimal.Decimal
}

// monthlyAmount returns the configured amount for a key, treating a missing
// setting as zero.
func (s *OverheadService) monthlyAmount(year int, month time.Month, category domain.OverheadCategory) (decimal.Decimal, error) {
	setting, err := s.overheadRepo.Get(year, month, category)
	if err == domain.ErrOverheadNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return setting.Amount, nil
}

// AllocationFor splits a month's amount for one category into a per-day floor
// share and the remainder.
func (s *OverheadService) AllocationFor(year int, month time.Month, category domain.OverheadCategory) (*Allocation, error) {
	monthly, err := s.monthlyAmount(year, month, category)
	if err != nil {
		return nil, err
	}

	days := decimal.NewFromInt(int64(util.DaysInMonth(year, month)))
	perDay := monthly.Div(days).Floor()
	remainder := monthly.Sub(perDay.Mul(days))

	return &Allocation{PerDay: perDay, Remainder: remainder}, nil
}

// ChargeForRecord returns the overhead charge a record carries for one
// category: the per-day share, plus the month remainder when the record is
// the month's last.
func (s *OverheadService) ChargeForRecord(record *domain.DailyRecord, category domain.OverheadCategory) (decimal.Decimal, error) {
	year, month := record.RecordDate.Year(), record.RecordDate.Month()

	alloc, err := s.AllocationFor(year, month, category)
	if err != nil {
		return decimal.Zero, err
	}

	charge := alloc.PerDay
	if alloc.Remainder.IsZero() {
		return charge, nil
	}

	lastID, err := s.recordRepo.LastOfMonth(year, month)
	if err == domain.ErrRecordNotFound {
		return charge, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	if lastID == record.ID {
		charge = charge.Add(alloc.Remainder)
	}
	return charge, nil
}
