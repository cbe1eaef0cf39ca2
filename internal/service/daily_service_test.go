package service

import (
	"testing"
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newDailyFixture() (*DailyService, *testutil.MockDailyRecordRepository, *testutil.MockFlourPurchaseRepository, *testutil.MockOverheadRepository) {
	recordRepo := testutil.NewMockDailyRecordRepository()
	purchaseRepo := testutil.NewMockFlourPurchaseRepository()
	overheadRepo := testutil.NewMockOverheadRepository()
	costing := NewCostingService(purchaseRepo, recordRepo)
	overhead := NewOverheadService(overheadRepo, recordRepo)
	return NewDailyService(recordRepo, costing, overhead), recordRepo, purchaseRepo, overheadRepo
}

func TestSubmitRecord_EmitsTransferMovements(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	bank := domain.AccountBank
	record, err := dailyService.SubmitRecord(SubmitRecordInput{
		Date:           date(2025, time.May, 10),
		Samoli:         domain.ProductionLine{Units: 300, PerThousand: 150},
		Withdrawal:     &TransferInput{Amount: decimal.NewFromInt(200), Account: domain.AccountCash},
		Repayment:      &TransferInput{Amount: decimal.NewFromInt(50), Account: domain.AccountBank},
		Injection:      &TransferInput{Amount: decimal.NewFromInt(1000), Account: domain.AccountBank},
		OtherTransfer:  &TransferInput{Amount: decimal.NewFromInt(-75), Account: domain.AccountCash},
		Expenses:       domain.ExpenseLines{Yeast: decimal.NewFromInt(30), Gas: decimal.NewFromInt(20)},
		ExpenseAccount: &bank,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	movements := recordRepo.Movements.Movements
	if len(movements) != 5 {
		t.Fatalf("Expected 5 movements, got %d", len(movements))
	}

	expect := map[string]decimal.Decimal{
		domain.ReasonOwnerWithdrawal:  decimal.NewFromInt(-200),
		domain.ReasonOwnerRepayment:   decimal.NewFromInt(-50),
		domain.ReasonCapitalInjection: decimal.NewFromInt(1000),
		domain.ReasonOwnerTransfer:    decimal.NewFromInt(-75),
		domain.ReasonDailyExpenses:    decimal.NewFromInt(-50),
	}
	for reason, amount := range expect {
		found := recordRepo.Movements.ByReason(reason)
		if len(found) != 1 {
			t.Fatalf("Expected exactly one %q movement, got %d", reason, len(found))
		}
		if !found[0].Amount.Equal(amount) {
			t.Errorf("Expected %q amount %s, got %s", reason, amount, found[0].Amount)
		}
		if found[0].SourceID == nil || *found[0].SourceID != record.ID {
			t.Errorf("Expected %q movement to carry the record id as source", reason)
		}
	}
}

func TestSubmitRecord_ZeroTransfersEmitNothing(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	_, err := dailyService.SubmitRecord(SubmitRecordInput{
		Date:       date(2025, time.May, 10),
		Withdrawal: &TransferInput{Amount: decimal.Zero, Account: domain.AccountCash},
		Injection:  &TransferInput{Amount: decimal.Zero, Account: domain.AccountBank},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(recordRepo.Movements.Movements) != 0 {
		t.Errorf("Expected no movements for zero transfers, got %d", len(recordRepo.Movements.Movements))
	}
}

func TestSubmitRecord_NoExpenseAccountNoExpenseMovement(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	_, err := dailyService.SubmitRecord(SubmitRecordInput{
		Date:     date(2025, time.May, 10),
		Expenses: domain.ExpenseLines{Salaries: decimal.NewFromInt(500)},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(recordRepo.Movements.Movements) != 0 {
		t.Errorf("Expected no expense movement without a payment account, got %d", len(recordRepo.Movements.Movements))
	}
}

func TestSubmitRecord_Validation(t *testing.T) {
	dailyService, _, _, _ := newDailyFixture()

	_, err := dailyService.SubmitRecord(SubmitRecordInput{
		Date:   date(2025, time.May, 10),
		Samoli: domain.ProductionLine{Units: -1, PerThousand: 150},
	})
	if err != domain.ErrNegativeValue {
		t.Errorf("Expected ErrNegativeValue for negative units, got %v", err)
	}

	_, err = dailyService.SubmitRecord(SubmitRecordInput{
		Date:       date(2025, time.May, 10),
		Withdrawal: &TransferInput{Amount: decimal.NewFromInt(-10), Account: domain.AccountCash},
	})
	if err != domain.ErrNegativeValue {
		t.Errorf("Expected ErrNegativeValue for negative withdrawal, got %v", err)
	}

	_, err = dailyService.SubmitRecord(SubmitRecordInput{
		Date:      date(2025, time.May, 10),
		Injection: &TransferInput{Amount: decimal.NewFromInt(10), Account: "wallet"},
	})
	if err != domain.ErrInvalidAccount {
		t.Errorf("Expected ErrInvalidAccount for unknown account, got %v", err)
	}

	bad := domain.Account("wallet")
	_, err = dailyService.SubmitRecord(SubmitRecordInput{
		Date:           date(2025, time.May, 10),
		ExpenseAccount: &bad,
	})
	if err != domain.ErrInvalidAccount {
		t.Errorf("Expected ErrInvalidAccount for unknown expense account, got %v", err)
	}
}

func TestSubmitRecord_RejectsNegativeExpenseLine(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	// A larger positive line must not mask the negative one behind a
	// non-negative total.
	_, err := dailyService.SubmitRecord(SubmitRecordInput{
		Date: date(2025, time.May, 10),
		Expenses: domain.ExpenseLines{
			Yeast: decimal.NewFromInt(-50),
			Salt:  decimal.NewFromInt(60),
		},
	})
	if err != domain.ErrNegativeValue {
		t.Errorf("Expected ErrNegativeValue for negative expense line, got %v", err)
	}
	if len(recordRepo.Records) != 0 {
		t.Errorf("Expected nothing stored, got %d records", len(recordRepo.Records))
	}
}

func TestComputeDay_ProfitExcludesTransfers(t *testing.T) {
	dailyService, recordRepo, purchaseRepo, overheadRepo := newDailyFixture()

	purchaseRepo.AddPurchase(&domain.FlourPurchase{
		PurchaseDate: date(2025, time.June, 1),
		Bags:         10,
		PricePerBag:  decimal.NewFromInt(100),
	})
	overheadRepo.Upsert(&domain.MonthlyOverhead{
		Year: 2025, Month: time.June, Category: domain.OverheadRent,
		Amount: decimal.NewFromInt(3000),
	})

	record := &domain.DailyRecord{
		RecordDate: date(2025, time.June, 5),
		Samoli:     domain.ProductionLine{Units: 300, PerThousand: 150},
		Madour:     domain.ProductionLine{Units: 100, PerThousand: 200},
		FlourBags:  2,
		Expenses:   domain.ExpenseLines{Yeast: decimal.NewFromInt(40), Gas: decimal.NewFromInt(60)},
		Withdrawal: &domain.OwnerTransfer{Amount: decimal.NewFromInt(9999), Account: domain.AccountCash},
		Injection:  &domain.OwnerTransfer{Amount: decimal.NewFromInt(5000), Account: domain.AccountBank},
	}
	recordRepo.AddRecord(record)

	day, err := dailyService.ComputeDay(record)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// samoli 300/150*1000 = 2000, madour 100/200*1000 = 500
	if !day.SamoliRevenue.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected samoli revenue 2000, got %s", day.SamoliRevenue)
	}
	if !day.MadourRevenue.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected madour revenue 500, got %s", day.MadourRevenue)
	}
	if !day.TotalRevenue.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("Expected total revenue 2500, got %s", day.TotalRevenue)
	}

	// flour 2*100 = 200, lines 100, rent 3000/30 = 100, no fuel setting
	if !day.FlourCost.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected flour cost 200, got %s", day.FlourCost)
	}
	if !day.RentCharge.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected rent charge 100, got %s", day.RentCharge)
	}
	if !day.FuelCharge.IsZero() {
		t.Errorf("Expected zero fuel charge, got %s", day.FuelCharge)
	}
	if !day.TotalExpense.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected total expense 400, got %s", day.TotalExpense)
	}

	// Transfers never enter the profit figure.
	if !day.NetProfit.Equal(decimal.NewFromInt(2100)) {
		t.Errorf("Expected net profit 2100, got %s", day.NetProfit)
	}
}

func TestComputeDailyTable_DuplicateDatesSummedIndependently(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.June, 5),
		Samoli:     domain.ProductionLine{Units: 100, PerThousand: 100},
	})
	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.June, 5),
		Samoli:     domain.ProductionLine{Units: 200, PerThousand: 100},
	})

	days, err := dailyService.ComputeDailyTable(nil, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("Expected 2 rows for duplicate dates, got %d", len(days))
	}
	if !days[0].TotalRevenue.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected first row revenue 1000, got %s", days[0].TotalRevenue)
	}
	if !days[1].TotalRevenue.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected second row revenue 2000, got %s", days[1].TotalRevenue)
	}
}

func TestDeleteRecord_LeavesMovements(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	record, err := dailyService.SubmitRecord(SubmitRecordInput{
		Date:       date(2025, time.May, 10),
		Withdrawal: &TransferInput{Amount: decimal.NewFromInt(100), Account: domain.AccountCash},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := dailyService.DeleteRecord(record.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := recordRepo.GetByID(record.ID); err != domain.ErrRecordNotFound {
		t.Errorf("Expected ErrRecordNotFound after delete, got %v", err)
	}
	// The ledger entry the record emitted stays behind.
	if len(recordRepo.Movements.Movements) != 1 {
		t.Errorf("Expected the movement to survive the delete, got %d", len(recordRepo.Movements.Movements))
	}

	if err := dailyService.DeleteRecord(record.ID); err != domain.ErrRecordNotFound {
		t.Errorf("Expected ErrRecordNotFound for double delete, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	now := date(2025, time.June, 20)

	// Old funded day, outside the lookback window.
	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.May, 1),
		Samoli:     domain.ProductionLine{Units: 100, PerThousand: 100},
		Expenses:   domain.ExpenseLines{Gas: decimal.NewFromInt(400)},
		Injection:  &domain.OwnerTransfer{Amount: decimal.NewFromInt(2000), Account: domain.AccountBank},
	})
	// Recent profitable day.
	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.June, 18),
		Samoli:     domain.ProductionLine{Units: 200, PerThousand: 100},
		Expenses:   domain.ExpenseLines{Gas: decimal.NewFromInt(600)},
	})
	// Break-even day, ignored by the per-day average.
	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.June, 19),
	})

	summary, err := dailyService.Summarize(now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !summary.TotalRevenue.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("Expected total revenue 3000, got %s", summary.TotalRevenue)
	}
	if !summary.TotalExpense.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected total expense 1000, got %s", summary.TotalExpense)
	}
	if !summary.NetProfit.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected net profit 2000, got %s", summary.NetProfit)
	}
	// 2000 profit over the 2 non-zero-profit days.
	if !summary.AverageDailyProfit.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected average daily profit 1000, got %s", summary.AverageDailyProfit)
	}
	if !summary.TotalFunding.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected total funding 2000, got %s", summary.TotalFunding)
	}
	if !summary.RecentFunding.IsZero() {
		t.Errorf("Expected no recent funding, got %s", summary.RecentFunding)
	}
	if !summary.SelfSufficient {
		t.Error("Expected self-sufficient: profit non-negative and no recent funding")
	}
}

func TestSummarize_RecentFundingBreaksSelfSufficiency(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	now := date(2025, time.June, 20)
	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.June, 15),
		Samoli:     domain.ProductionLine{Units: 100, PerThousand: 100},
		Injection:  &domain.OwnerTransfer{Amount: decimal.NewFromInt(500), Account: domain.AccountCash},
	})

	summary, err := dailyService.Summarize(now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summary.RecentFunding.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected recent funding 500, got %s", summary.RecentFunding)
	}
	if summary.SelfSufficient {
		t.Error("Expected not self-sufficient while owner funding is recent")
	}
}

func TestReportForMonth(t *testing.T) {
	dailyService, recordRepo, _, _ := newDailyFixture()

	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.June, 1),
		Samoli:     domain.ProductionLine{Units: 100, PerThousand: 100},
	})
	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.June, 30),
		Samoli:     domain.ProductionLine{Units: 100, PerThousand: 100},
		Expenses:   domain.ExpenseLines{Gas: decimal.NewFromInt(300)},
	})
	// Next month, excluded.
	recordRepo.AddRecord(&domain.DailyRecord{
		RecordDate: date(2025, time.July, 1),
		Samoli:     domain.ProductionLine{Units: 999, PerThousand: 100},
	})

	report, err := dailyService.ReportForMonth(2025, time.June)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(report.Days) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(report.Days))
	}
	if !report.TotalRevenue.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected month revenue 2000, got %s", report.TotalRevenue)
	}
	if !report.TotalExpense.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected month expense 300, got %s", report.TotalExpense)
	}
	if !report.NetProfit.Equal(decimal.NewFromInt(1700)) {
		t.Errorf("Expected month profit 1700, got %s", report.NetProfit)
	}

	if _, err := dailyService.ReportForMonth(2025, 13); err != domain.ErrInvalidMonth {
		t.Errorf("Expected ErrInvalidMonth, got %v", err)
	}
}
