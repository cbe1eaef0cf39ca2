package service

import (
	"testing"
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestAllocationFor_ExactDivision(t *testing.T) {
	overheadRepo := testutil.NewMockOverheadRepository()
	recordRepo := testutil.NewMockDailyRecordRepository()
	overheadService := NewOverheadService(overheadRepo, recordRepo)

	// 3000 over a 30-day month: 100 per day, nothing left over.
	overheadRepo.Upsert(&domain.MonthlyOverhead{
		Year: 2025, Month: time.June, Category: domain.OverheadRent,
		Amount: decimal.NewFromInt(3000),
	})

	alloc, err := overheadService.AllocationFor(2025, time.June, domain.OverheadRent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !alloc.PerDay.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected per-day 100, got %s", alloc.PerDay)
	}
	if !alloc.Remainder.IsZero() {
		t.Errorf("Expected zero remainder, got %s", alloc.Remainder)
	}
	// Must reconcile: 100 * 30 == 3000.
	if !alloc.PerDay.Mul(decimal.NewFromInt(30)).Equal(decimal.NewFromInt(3000)) {
		t.Error("Per-day allocation does not reconcile with the monthly amount")
	}
}

func TestAllocationFor_Remainder(t *testing.T) {
	overheadRepo := testutil.NewMockOverheadRepository()
	recordRepo := testutil.NewMockDailyRecordRepository()
	overheadService := NewOverheadService(overheadRepo, recordRepo)

	overheadRepo.Upsert(&domain.MonthlyOverhead{
		Year: 2025, Month: time.June, Category: domain.OverheadFuel,
		Amount: decimal.NewFromInt(3100),
	})

	alloc, err := overheadService.AllocationFor(2025, time.June, domain.OverheadFuel)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !alloc.PerDay.Equal(decimal.NewFromInt(103)) {
		t.Errorf("Expected per-day 103, got %s", alloc.PerDay)
	}
	if !alloc.Remainder.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected remainder 10, got %s", alloc.Remainder)
	}
}

func TestAllocationFor_MissingSettingIsZero(t *testing.T) {
	overheadRepo := testutil.NewMockOverheadRepository()
	recordRepo := testutil.NewMockDailyRecordRepository()
	overheadService := NewOverheadService(overheadRepo, recordRepo)

	alloc, err := overheadService.AllocationFor(2025, time.June, domain.OverheadRent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !alloc.PerDay.IsZero() || !alloc.Remainder.IsZero() {
		t.Errorf("Expected zero allocation for unset month, got %s + %s", alloc.PerDay, alloc.Remainder)
	}
}

func TestChargeForRecord_RemainderGoesToLastRecord(t *testing.T) {
	overheadRepo := testutil.NewMockOverheadRepository()
	recordRepo := testutil.NewMockDailyRecordRepository()
	overheadService := NewOverheadService(overheadRepo, recordRepo)

	overheadRepo.Upsert(&domain.MonthlyOverhead{
		Year: 2025, Month: time.June, Category: domain.OverheadRent,
		Amount: decimal.NewFromInt(3100),
	})

	first := &domain.DailyRecord{RecordDate: date(2025, time.June, 10)}
	last := &domain.DailyRecord{RecordDate: date(2025, time.June, 25)}
	recordRepo.AddRecord(first)
	recordRepo.AddRecord(last)

	firstCharge, err := overheadService.ChargeForRecord(first, domain.OverheadRent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	lastCharge, err := overheadService.ChargeForRecord(last, domain.OverheadRent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !firstCharge.Equal(decimal.NewFromInt(103)) {
		t.Errorf("Expected first record charge 103, got %s", firstCharge)
	}
	if !lastCharge.Equal(decimal.NewFromInt(113)) {
		t.Errorf("Expected last record charge 113 (103 + remainder 10), got %s", lastCharge)
	}
}

func TestChargeForRecord_FullMonthReconciles(t *testing.T) {
	overheadRepo := testutil.NewMockOverheadRepository()
	recordRepo := testutil.NewMockDailyRecordRepository()
	overheadService := NewOverheadService(overheadRepo, recordRepo)

	monthly := decimal.NewFromInt(3100)
	overheadRepo.Upsert(&domain.MonthlyOverhead{
		Year: 2025, Month: time.June, Category: domain.OverheadRent,
		Amount: monthly,
	})

	records := make([]*domain.DailyRecord, 0, 30)
	for day := 1; day <= 30; day++ {
		record := &domain.DailyRecord{RecordDate: date(2025, time.June, day)}
		recordRepo.AddRecord(record)
		records = append(records, record)
	}

	total := decimal.Zero
	for _, record := range records {
		charge, err := overheadService.ChargeForRecord(record, domain.OverheadRent)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		total = total.Add(charge)
	}

	if !total.Equal(monthly) {
		t.Errorf("Expected charges to reconcile to %s, got %s", monthly, total)
	}
}

func TestSetMonthly_UpsertWins(t *testing.T) {
	overheadRepo := testutil.NewMockOverheadRepository()
	recordRepo := testutil.NewMockDailyRecordRepository()
	overheadService := NewOverheadService(overheadRepo, recordRepo)

	if _, err := overheadService.SetMonthly(2025, time.June, domain.OverheadRent, decimal.NewFromInt(3000)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := overheadService.SetMonthly(2025, time.June, domain.OverheadRent, decimal.NewFromInt(4500)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	setting, err := overheadRepo.Get(2025, time.June, domain.OverheadRent)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !setting.Amount.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("Expected latest write 4500 to win, got %s", setting.Amount)
	}
}

func TestSetMonthly_Validation(t *testing.T) {
	overheadRepo := testutil.NewMockOverheadRepository()
	recordRepo := testutil.NewMockDailyRecordRepository()
	overheadService := NewOverheadService(overheadRepo, recordRepo)

	if _, err := overheadService.SetMonthly(2025, time.June, "electricity", decimal.NewFromInt(10)); err != domain.ErrInvalidCategory {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
	if _, err := overheadService.SetMonthly(2025, 13, domain.OverheadRent, decimal.NewFromInt(10)); err != domain.ErrInvalidMonth {
		t.Errorf("Expected ErrInvalidMonth, got %v", err)
	}
	if _, err := overheadService.SetMonthly(2025, time.June, domain.OverheadRent, decimal.NewFromInt(-10)); err != domain.ErrNegativeValue {
		t.Errorf("Expected ErrNegativeValue, got %v", err)
	}
}
