package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alshorouk/bakery-backend/internal/domain"
)

// OverheadRepository implements domain.OverheadRepository using PostgreSQL
type OverheadRepository struct {
	pool *pgxpool.Pool
}

// NewOverheadRepository creates a new OverheadRepository
func NewOverheadRepository(pool *pgxpool.Pool) *OverheadRepository {
	return &OverheadRepository{pool: pool}
}

var overheadColumns = []string{"year", "month", "category", "amount", "updated_at"}

type overheadRow struct {
	Year      int                `db:"year"`
	Month     int                `db:"month"`
	Category  string             `db:"category"`
	Amount    pgtype.Numeric     `db:"amount"`
	UpdatedAt pgtype.Timestamptz `db:"updated_at"`
}

func overheadRowToDomain(row *overheadRow) *domain.MonthlyOverhead {
	return &domain.MonthlyOverhead{
		Year:      row.Year,
		Month:     time.Month(row.Month),
		Category:  domain.OverheadCategory(row.Category),
		Amount:    pgNumericToDecimal(row.Amount),
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// Upsert writes a monthly overhead setting; the latest write for a
// (year, month, category) key wins
func (r *OverheadRepository) Upsert(setting *domain.MonthlyOverhead) (*domain.MonthlyOverhead, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(setting.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query, args, err := qb().
		Insert("monthly_overheads").
		Columns("year", "month", "category", "amount").
		Values(setting.Year, int(setting.Month), string(setting.Category), amount).
		Suffix(`ON CONFLICT (year, month, category)
			DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()
			RETURNING year, month, category, amount, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert: %w", err)
	}

	var row overheadRow
	if err := pgxscan.Get(ctx, r.pool, &row, query, args...); err != nil {
		return nil, err
	}
	return overheadRowToDomain(&row), nil
}

// Get retrieves one monthly setting
func (r *OverheadRepository) Get(year int, month time.Month, category domain.OverheadCategory) (*domain.MonthlyOverhead, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select(overheadColumns...).
		From("monthly_overheads").
		Where(squirrel.Eq{"year": year, "month": int(month), "category": string(category)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row overheadRow
	if err := pgxscan.Get(ctx, r.pool, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrOverheadNotFound
		}
		return nil, err
	}
	return overheadRowToDomain(&row), nil
}

// GetMonth retrieves every setting stored for a month
func (r *OverheadRepository) GetMonth(year int, month time.Month) ([]*domain.MonthlyOverhead, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select(overheadColumns...).
		From("monthly_overheads").
		Where(squirrel.Eq{"year": year, "month": int(month)}).
		OrderBy("category ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*overheadRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]*domain.MonthlyOverhead, len(rows))
	for i, row := range rows {
		result[i] = overheadRowToDomain(row)
	}
	return result, nil
}
