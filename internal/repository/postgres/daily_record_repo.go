package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alshorouk/bakery-backend/internal/domain"
	"github.com/alshorouk/bakery-backend/internal/util"
)

// DailyRecordRepository implements domain.DailyRecordRepository using PostgreSQL
type DailyRecordRepository struct {
	pool *pgxpool.Pool
}

// NewDailyRecordRepository creates a new DailyRecordRepository
func NewDailyRecordRepository(pool *pgxpool.Pool) *DailyRecordRepository {
	return &DailyRecordRepository{pool: pool}
}

var dailyRecordColumns = []string{
	"id", "record_date",
	"samoli_units", "samoli_per_thousand", "madour_units", "madour_per_thousand",
	"flour_bags", "flour_bag_price",
	"exp_flour_extra", "exp_yeast", "exp_salt", "exp_oil", "exp_packaging",
	"exp_gas", "exp_electricity", "exp_water", "exp_salaries", "exp_maintenance",
	"exp_transport", "exp_petty", "exp_other",
	"returns", "discounts",
	"withdrawal_amount", "withdrawal_account",
	"repayment_amount", "repayment_account",
	"injection_amount", "injection_account",
	"other_transfer_amount", "other_transfer_account",
	"expense_account", "created_at",
}

type dailyRecordRow struct {
	ID                   pgtype.UUID        `db:"id"`
	RecordDate           pgtype.Date        `db:"record_date"`
	SamoliUnits          int64              `db:"samoli_units"`
	SamoliPerThousand    int64              `db:"samoli_per_thousand"`
	MadourUnits          int64              `db:"madour_units"`
	MadourPerThousand    int64              `db:"madour_per_thousand"`
	FlourBags            int64              `db:"flour_bags"`
	FlourBagPrice        pgtype.Numeric     `db:"flour_bag_price"`
	ExpFlourExtra        pgtype.Numeric     `db:"exp_flour_extra"`
	ExpYeast             pgtype.Numeric     `db:"exp_yeast"`
	ExpSalt              pgtype.Numeric     `db:"exp_salt"`
	ExpOil               pgtype.Numeric     `db:"exp_oil"`
	ExpPackaging         pgtype.Numeric     `db:"exp_packaging"`
	ExpGas               pgtype.Numeric     `db:"exp_gas"`
	ExpElectricity       pgtype.Numeric     `db:"exp_electricity"`
	ExpWater             pgtype.Numeric     `db:"exp_water"`
	ExpSalaries          pgtype.Numeric     `db:"exp_salaries"`
	ExpMaintenance       pgtype.Numeric     `db:"exp_maintenance"`
	ExpTransport         pgtype.Numeric     `db:"exp_transport"`
	ExpPetty             pgtype.Numeric     `db:"exp_petty"`
	ExpOther             pgtype.Numeric     `db:"exp_other"`
	Returns              pgtype.Numeric     `db:"returns"`
	Discounts            pgtype.Numeric     `db:"discounts"`
	WithdrawalAmount     pgtype.Numeric     `db:"withdrawal_amount"`
	WithdrawalAccount    pgtype.Text        `db:"withdrawal_account"`
	RepaymentAmount      pgtype.Numeric     `db:"repayment_amount"`
	RepaymentAccount     pgtype.Text        `db:"repayment_account"`
	InjectionAmount      pgtype.Numeric     `db:"injection_amount"`
	InjectionAccount     pgtype.Text        `db:"injection_account"`
	OtherTransferAmount  pgtype.Numeric     `db:"other_transfer_amount"`
	OtherTransferAccount pgtype.Text        `db:"other_transfer_account"`
	ExpenseAccount       pgtype.Text        `db:"expense_account"`
	CreatedAt            pgtype.Timestamptz `db:"created_at"`
}

func transferFromRow(amount pgtype.Numeric, account pgtype.Text) *domain.OwnerTransfer {
	if !amount.Valid || !account.Valid {
		return nil
	}
	return &domain.OwnerTransfer{
		Amount:  pgNumericToDecimal(amount),
		Account: domain.Account(account.String),
	}
}

func dailyRecordRowToDomain(row *dailyRecordRow) *domain.DailyRecord {
	record := &domain.DailyRecord{
		ID:            uuid.UUID(row.ID.Bytes),
		RecordDate:    row.RecordDate.Time,
		Samoli:        domain.ProductionLine{Units: row.SamoliUnits, PerThousand: row.SamoliPerThousand},
		Madour:        domain.ProductionLine{Units: row.MadourUnits, PerThousand: row.MadourPerThousand},
		FlourBags:     row.FlourBags,
		FlourBagPrice: pgNumericToDecimal(row.FlourBagPrice),
		Expenses: domain.ExpenseLines{
			FlourExtra:  pgNumericToDecimal(row.ExpFlourExtra),
			Yeast:       pgNumericToDecimal(row.ExpYeast),
			Salt:        pgNumericToDecimal(row.ExpSalt),
			Oil:         pgNumericToDecimal(row.ExpOil),
			Packaging:   pgNumericToDecimal(row.ExpPackaging),
			Gas:         pgNumericToDecimal(row.ExpGas),
			Electricity: pgNumericToDecimal(row.ExpElectricity),
			Water:       pgNumericToDecimal(row.ExpWater),
			Salaries:    pgNumericToDecimal(row.ExpSalaries),
			Maintenance: pgNumericToDecimal(row.ExpMaintenance),
			Transport:   pgNumericToDecimal(row.ExpTransport),
			Petty:       pgNumericToDecimal(row.ExpPetty),
			Other:       pgNumericToDecimal(row.ExpOther),
		},
		Returns:       pgNumericToDecimal(row.Returns),
		Discounts:     pgNumericToDecimal(row.Discounts),
		Withdrawal:    transferFromRow(row.WithdrawalAmount, row.WithdrawalAccount),
		Repayment:     transferFromRow(row.RepaymentAmount, row.RepaymentAccount),
		Injection:     transferFromRow(row.InjectionAmount, row.InjectionAccount),
		OtherTransfer: transferFromRow(row.OtherTransferAmount, row.OtherTransferAccount),
		CreatedAt:     row.CreatedAt.Time,
	}
	if row.ExpenseAccount.Valid {
		account := domain.Account(row.ExpenseAccount.String)
		record.ExpenseAccount = &account
	}
	return record
}

func transferToRow(transfer *domain.OwnerTransfer) (pgtype.Numeric, pgtype.Text, error) {
	if transfer == nil {
		return pgtype.Numeric{}, pgtype.Text{}, nil
	}
	amount, err := decimalToPgNumeric(transfer.Amount)
	if err != nil {
		return pgtype.Numeric{}, pgtype.Text{}, err
	}
	return amount, pgtype.Text{String: string(transfer.Account), Valid: true}, nil
}

// Create inserts the record and every movement it emits in one transaction
func (r *DailyRecordRepository) Create(record *domain.DailyRecord, movements []*domain.MoneyMovement) (*domain.DailyRecord, error) {
	ctx := context.Background()

	values := map[string]any{
		"id":                  pgUUID(record.ID),
		"record_date":         pgDate(record.RecordDate),
		"samoli_units":        record.Samoli.Units,
		"samoli_per_thousand": record.Samoli.PerThousand,
		"madour_units":        record.Madour.Units,
		"madour_per_thousand": record.Madour.PerThousand,
		"flour_bags":          record.FlourBags,
	}

	decimals := []struct {
		column string
		value  decimal.Decimal
	}{
		{"flour_bag_price", record.FlourBagPrice},
		{"exp_flour_extra", record.Expenses.FlourExtra},
		{"exp_yeast", record.Expenses.Yeast},
		{"exp_salt", record.Expenses.Salt},
		{"exp_oil", record.Expenses.Oil},
		{"exp_packaging", record.Expenses.Packaging},
		{"exp_gas", record.Expenses.Gas},
		{"exp_electricity", record.Expenses.Electricity},
		{"exp_water", record.Expenses.Water},
		{"exp_salaries", record.Expenses.Salaries},
		{"exp_maintenance", record.Expenses.Maintenance},
		{"exp_transport", record.Expenses.Transport},
		{"exp_petty", record.Expenses.Petty},
		{"exp_other", record.Expenses.Other},
		{"returns", record.Returns},
		{"discounts", record.Discounts},
	}
	for _, d := range decimals {
		num, err := decimalToPgNumeric(d.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.column, err)
		}
		values[d.column] = num
	}

	transfers := []struct {
		amountColumn  string
		accountColumn string
		transfer      *domain.OwnerTransfer
	}{
		{"withdrawal_amount", "withdrawal_account", record.Withdrawal},
		{"repayment_amount", "repayment_account", record.Repayment},
		{"injection_amount", "injection_account", record.Injection},
		{"other_transfer_amount", "other_transfer_account", record.OtherTransfer},
	}
	for _, t := range transfers {
		amount, account, err := transferToRow(t.transfer)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", t.amountColumn, err)
		}
		values[t.amountColumn] = amount
		values[t.accountColumn] = account
	}

	var expenseAccount pgtype.Text
	if record.ExpenseAccount != nil {
		expenseAccount = pgtype.Text{String: string(*record.ExpenseAccount), Valid: true}
	}
	values["expense_account"] = expenseAccount

	query, args, err := qb().
		Insert("daily_records").
		SetMap(values).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var createdAt pgtype.Timestamptz
	if err := tx.QueryRow(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, err
	}

	for _, movement := range movements {
		if _, err := insertMovement(ctx, tx, movement); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Time
	return record, nil
}

// GetByID retrieves a record by its ID
func (r *DailyRecordRepository) GetByID(id uuid.UUID) (*domain.DailyRecord, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select(dailyRecordColumns...).
		From("daily_records").
		Where(squirrel.Eq{"id": pgUUID(id)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row dailyRecordRow
	if err := pgxscan.Get(ctx, r.pool, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return dailyRecordRowToDomain(&row), nil
}

// ListByDateRange retrieves records in [from, to] ordered by date then
// insertion order. Nil bounds are open.
func (r *DailyRecordRepository) ListByDateRange(from, to *time.Time) ([]*domain.DailyRecord, error) {
	ctx := context.Background()

	q := qb().
		Select(dailyRecordColumns...).
		From("daily_records").
		OrderBy("record_date ASC", "created_at ASC")
	if from != nil {
		q = q.Where(squirrel.GtOrEq{"record_date": pgDate(*from)})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{"record_date": pgDate(*to)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*dailyRecordRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]*domain.DailyRecord, len(rows))
	for i, row := range rows {
		result[i] = dailyRecordRowToDomain(row)
	}
	return result, nil
}

// LastOfMonth returns the id of the month's latest record; date ties go to
// the most recently inserted one
func (r *DailyRecordRepository) LastOfMonth(year int, month time.Month) (uuid.UUID, error) {
	ctx := context.Background()

	first, last := util.MonthBounds(year, month)
	query, args, err := qb().
		Select("id").
		From("daily_records").
		Where(squirrel.GtOrEq{"record_date": pgDate(first)}).
		Where(squirrel.LtOrEq{"record_date": pgDate(last)}).
		OrderBy("record_date DESC", "created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build query: %w", err)
	}

	var id pgtype.UUID
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, domain.ErrRecordNotFound
		}
		return uuid.Nil, err
	}
	return uuid.UUID(id.Bytes), nil
}

// SumBagsConsumed totals flour bags on records dated at or before asOf
func (r *DailyRecordRepository) SumBagsConsumed(asOf time.Time) (int64, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select("COALESCE(SUM(flour_bags), 0)").
		From("daily_records").
		Where(squirrel.LtOrEq{"record_date": pgDate(asOf)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Delete removes a record. Movements the record emitted stay in the ledger.
func (r *DailyRecordRepository) Delete(id uuid.UUID) error {
	ctx := context.Background()

	query, args, err := qb().
		Delete("daily_records").
		Where(squirrel.Eq{"id": pgUUID(id)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
