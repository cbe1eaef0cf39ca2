package service

import (
	"time"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundingLookbackDays is the window used for the dashboard's recent owner
// funding figure.
const FundingLookbackDays = 14

// DailyService handles daily record submission and all per-day derived
// figures. Derived values are never stored; every read recomputes them from
// the source records.
type DailyService struct {
	recordRepo domain.DailyRecordRepository
	costing    *CostingService
	overhead   *OverheadService
}

// NewDailyService creates a new DailyService
func NewDailyService(recordRepo domain.DailyRecordRepository, costing *CostingService, overhead *OverheadService) *DailyService {
	return &DailyService{
		recordRepo: recordRepo,
		costing:    costing,
		overhead:   overhead,
	}
}

// TransferInput is one owner transfer on a daily record submission.
type TransferInput struct {
	Amount  decimal.Decimal
	Account domain.Account
}

// SubmitRecordInput holds the input for submitting a daily record
type SubmitRecordInput struct {
	Date           time.Time
	Samoli         domain.ProductionLine
	Madour         domain.ProductionLine
	FlourBags      int64
	FlourBagPrice  decimal.Decimal
	Expenses       domain.ExpenseLines
	Returns        decimal.Decimal
	Discounts      decimal.Decimal
	Withdrawal     *TransferInput
	Repayment      *TransferInput
	Injection      *TransferInput
	OtherTransfer  *TransferInput // amount may be signed
	ExpenseAccount *domain.Account
}

// SubmitRecord validates and stores one daily record, emitting its owner
// transfer movements and the optional expense payment movement in the same
// transaction as the insert.
func (s *DailyService) SubmitRecord(input SubmitRecordInput) (*domain.DailyRecord, error) {
	if err := validateRecordInput(&input); err != nil {
		return nil, err
	}

	record := &domain.DailyRecord{
		ID:            uuid.New(),
		RecordDate:    util.DateOnly(input.Date),
		Samoli:        input.Samoli,
		Madour:        input.Madour,
		FlourBags:     input.FlourBags,
		FlourBagPrice: input.FlourBagPrice,
		Expenses:      input.Expenses,
		Returns:       input.Returns,
		Discounts:     input.Discounts,
	}
	if input.Withdrawal != nil {
		record.Withdrawal = &domain.OwnerTransfer{Amount: input.Withdrawal.Amount, Account: input.Withdrawal.Account}
	}
	if input.Repayment != nil {
		record.Repayment = &domain.OwnerTransfer{Amount: input.Repayment.Amount, Account: input.Repayment.Account}
	}
	if input.Injection != nil {
		record.Injection = &domain.OwnerTransfer{Amount: input.Injection.Amount, Account: input.Injection.Account}
	}
	if input.OtherTransfer != nil {
		record.OtherTransfer = &domain.OwnerTransfer{Amount: input.OtherTransfer.Amount, Account: input.OtherTransfer.Account}
	}
	if input.ExpenseAccount != nil {
		account := *input.ExpenseAccount
		record.ExpenseAccount = &account
	}

	movements := buildRecordMovements(record)

	return s.recordRepo.Create(record, movements)
}

func validateRecordInput(input *SubmitRecordInput) error {
	if input.Samoli.Units < 0 || input.Samoli.PerThousand < 0 ||
		input.Madour.Units < 0 || input.Madour.PerThousand < 0 {
		return domain.ErrNegativeValue
	}
	if input.FlourBags < 0 {
		return domain.ErrNegativeValue
	}
	for _, v := range []decimal.Decimal{
		input.FlourBagPrice, input.Returns, input.Discounts,
	} {
		if v.IsNegative() {
			return domain.ErrNegativeValue
		}
	}
	// Each line item must be non-negative on its own; positive lines must not
	// mask a negative one behind a non-negative total.
	if input.Expenses.HasNegative() {
		return domain.ErrNegativeValue
	}

	// Withdrawal, repayment and injection are magnitudes; only the "other"
	// transfer may be signed.
	for _, transfer := range []*TransferInput{input.Withdrawal, input.Repayment, input.Injection} {
		if transfer == nil {
			continue
		}
		if transfer.Amount.IsNegative() {
			return domain.ErrNegativeValue
		}
		if !transfer.Account.IsValid() {
			return domain.ErrInvalidAccount
		}
	}
	if input.OtherTransfer != nil && !input.OtherTransfer.Account.IsValid() {
		return domain.ErrInvalidAccount
	}
	if input.ExpenseAccount != nil && !input.ExpenseAccount.IsValid() {
		return domain.ErrInvalidAccount
	}
	return nil
}

// buildRecordMovements derives the ledger movements a record emits. Owner
// transfers affect balances only; the expense payment movement is emitted
// only when the record declares a payment account, and only covers the cash
// expense line items (flour costing and allocated overhead are derived
// figures, not cash paid that day). Zero amounts emit nothing.
func buildRecordMovements(record *domain.DailyRecord) []*domain.MoneyMovement {
	sourceID := record.ID
	var movements []*domain.MoneyMovement

	add := func(transfer *domain.OwnerTransfer, amount decimal.Decimal, reason string) {
		if transfer == nil || amount.IsZero() {
			return
		}
		movements = append(movements, &domain.MoneyMovement{
			MovementDate: record.RecordDate,
			Account:      transfer.Account,
			Amount:       amount,
			Reason:       reason,
			SourceID:     &sourceID,
		})
	}

	add(record.Withdrawal, negOf(record.Withdrawal), domain.ReasonOwnerWithdrawal)
	add(record.Repayment, negOf(record.Repayment), domain.ReasonOwnerRepayment)
	add(record.Injection, posOf(record.Injection), domain.ReasonCapitalInjection)
	add(record.OtherTransfer, posOf(record.OtherTransfer), domain.ReasonOwnerTransfer)

	if record.ExpenseAccount != nil {
		lineTotal := record.Expenses.Total()
		if !lineTotal.IsZero() {
			movements = append(movements, &domain.MoneyMovement{
				MovementDate: record.RecordDate,
				Account:      *record.ExpenseAccount,
				Amount:       lineTotal.Neg(),
				Reason:       domain.ReasonDailyExpenses,
				SourceID:     &sourceID,
			})
		}
	}

	return movements
}

func negOf(t *domain.OwnerTransfer) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	return t.Amount.Neg()
}

func posOf(t *domain.OwnerTransfer) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	return t.Amount
}

// DeleteRecord removes a daily record by id. Ledger movements the record
// emitted remain; the ledger is append-only and corrections are offsetting
// movements.
func (s *DailyService) DeleteRecord(id uuid.UUID) error {
	return s.recordRepo.Delete(id)
}

// ComputedDay is one daily record with every derived figure populated.
type ComputedDay struct {
	Record           *domain.DailyRecord `json:"record"`
	SamoliRevenue    decimal.Decimal     `json:"samoliRevenue"`
	MadourRevenue    decimal.Decimal     `json:"madourRevenue"`
	TotalRevenue     decimal.Decimal     `json:"totalRevenue"`
	FlourCost        decimal.Decimal     `json:"flourCost"`
	RentCharge       decimal.Decimal     `json:"rentCharge"`
	FuelCharge       decimal.Decimal     `json:"fuelCharge"`
	ExpenseLineTotal decimal.Decimal     `json:"expenseLineTotal"`
	TotalExpense     decimal.Decimal     `json:"totalExpense"`
	NetProfit        decimal.Decimal     `json:"netProfit"`
}

// ComputeDay derives all financial figures for one record. Owner transfers
// are excluded from both revenue and expense: profit depends on sales and
// operating costs alone.
func (s *DailyService) ComputeDay(record *domain.DailyRecord) (*ComputedDay, error) {
	day := &ComputedDay{
		Record:        record,
		SamoliRevenue: RevenueFromThousand(record.Samoli.Units, record.Samoli.PerThousand),
		MadourRevenue: RevenueFromThousand(record.Madour.Units, record.Madour.PerThousand),
	}
	day.TotalRevenue = day.SamoliRevenue.Add(day.MadourRevenue)

	flourCost, err := s.costing.DailyFlourCost(record)
	if err != nil {
		return nil, err
	}
	day.FlourCost = flourCost

	rent, err := s.overhead.ChargeForRecord(record, domain.OverheadRent)
	if err != nil {
		return nil, err
	}
	day.RentCharge = rent

	fuel, err := s.overhead.ChargeForRecord(record, domain.OverheadFuel)
	if err != nil {
		return nil, err
	}
	day.FuelCharge = fuel

	day.ExpenseLineTotal = record.Expenses.Total()
	day.TotalExpense = day.FlourCost.
		Add(day.ExpenseLineTotal).
		Add(day.RentCharge).
		Add(day.FuelCharge)
	day.NetProfit = day.TotalRevenue.Sub(day.TotalExpense)

	return day, nil
}

// ComputeDailyTable returns all records in [from, to] ordered by date with
// derived fields populated. Nil bounds are open.
func (s *DailyService) ComputeDailyTable(from, to *time.Time) ([]*ComputedDay, error) {
	records, err := s.recordRepo.ListByDateRange(from, to)
	if err != nil {
		return nil, err
	}

	days := make([]*ComputedDay, len(records))
	for i, record := range records {
		day, err := s.ComputeDay(record)
		if err != nil {
			return nil, err
		}
		days[i] = day
	}
	return days, nil
}

// DashboardSummary aggregates the whole history for the overview screen.
type DashboardSummary struct {
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	TotalExpense       decimal.Decimal `json:"totalExpense"`
	NetProfit          decimal.Decimal `json:"netProfit"`
	AverageDailyProfit decimal.Decimal `json:"averageDailyProfit"`
	TotalFunding       decimal.Decimal `json:"totalFunding"`
	RecentFunding      decimal.Decimal `json:"recentFunding"`
	SelfSufficient     bool            `json:"selfSufficient"`
}

// Summarize computes the dashboard totals. Average daily profit ignores
// zero-profit days; the bakery counts as self-sufficient when cumulative
// profit is non-negative and no owner funding arrived in the lookback window.
func (s *DailyService) Summarize(now time.Time) (*DashboardSummary, error) {
	days, err := s.ComputeDailyTable(nil, nil)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
	}

	recentCutoff := util.DateOnly(now).AddDate(0, 0, -FundingLookbackDays)
	profitDays := int64(0)

	for _, day := range days {
		summary.TotalRevenue = summary.TotalRevenue.Add(day.TotalRevenue)
		summary.TotalExpense = summary.TotalExpense.Add(day.TotalExpense)
		if !day.NetProfit.IsZero() {
			profitDays++
		}

		funding := posOf(day.Record.Injection)
		if funding.IsZero() {
			continue
		}
		summary.TotalFunding = summary.TotalFunding.Add(funding)
		if !day.Record.RecordDate.Before(recentCutoff) {
			summary.RecentFunding = summary.RecentFunding.Add(funding)
		}
	}

	summary.NetProfit = summary.TotalRevenue.Sub(summary.TotalExpense)
	if profitDays > 0 {
		summary.AverageDailyProfit = summary.NetProfit.Div(decimal.NewFromInt(profitDays)).Round(2)
	}
	summary.SelfSufficient = !summary.NetProfit.IsNegative() && summary.RecentFunding.IsZero()

	return summary, nil
}

// MonthlyReport is a month's computed rows plus its totals; the data behind
// the exported monthly sheet.
type MonthlyReport struct {
	Year         int             `json:"year"`
	Month        time.Month      `json:"month"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	Days         []*ComputedDay  `json:"days"`
}

// ReportForMonth computes a month's daily rows and totals.
func (s *DailyService) ReportForMonth(year int, month time.Month) (*MonthlyReport, error) {
	if year < 1 || month < time.January || month > time.December {
		return nil, domain.ErrInvalidMonth
	}

	first, last := util.MonthBounds(year, month)
	days, err := s.ComputeDailyTable(&first, &last)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Year:         year,
		Month:        month,
		TotalRevenue: decimal.Zero,
		TotalExpense: decimal.Zero,
		Days:         days,
	}
	for _, day := range days {
		report.TotalRevenue = report.TotalRevenue.Add(day.TotalRevenue)
		report.TotalExpense = report.TotalExpense.Add(day.TotalExpense)
	}
	report.NetProfit = report.TotalRevenue.Sub(report.TotalExpense)

	return report, nil
}
