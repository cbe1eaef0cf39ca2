package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alshorouk/bakery-backend/internal/domain"
)

// FlourPurchaseRepository implements domain.FlourPurchaseRepository using PostgreSQL
type FlourPurchaseRepository struct {
	pool *pgxpool.Pool
}

// NewFlourPurchaseRepository creates a new FlourPurchaseRepository
func NewFlourPurchaseRepository(pool *pgxpool.Pool) *FlourPurchaseRepository {
	return &FlourPurchaseRepository{pool: pool}
}

var flourPurchaseColumns = []string{
	"id", "purchase_date", "bags", "price_per_bag", "note", "created_at",
}

type flourPurchaseRow struct {
	ID           pgtype.UUID        `db:"id"`
	PurchaseDate pgtype.Date        `db:"purchase_date"`
	Bags         int64              `db:"bags"`
	PricePerBag  pgtype.Numeric     `db:"price_per_bag"`
	Note         pgtype.Text        `db:"note"`
	CreatedAt    pgtype.Timestamptz `db:"created_at"`
}

func flourPurchaseRowToDomain(row *flourPurchaseRow) *domain.FlourPurchase {
	return &domain.FlourPurchase{
		ID:           uuid.UUID(row.ID.Bytes),
		PurchaseDate: row.PurchaseDate.Time,
		Bags:         row.Bags,
		PricePerBag:  pgNumericToDecimal(row.PricePerBag),
		Note:         textPtr(row.Note),
		CreatedAt:    row.CreatedAt.Time,
	}
}

// Create inserts a flour purchase
func (r *FlourPurchaseRepository) Create(purchase *domain.FlourPurchase) (*domain.FlourPurchase, error) {
	ctx := context.Background()

	price, err := decimalToPgNumeric(purchase.PricePerBag)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}

	query, args, err := qb().
		Insert("flour_purchases").
		Columns("id", "purchase_date", "bags", "price_per_bag", "note").
		Values(pgUUID(purchase.ID), pgDate(purchase.PurchaseDate), purchase.Bags, price, pgTextPtr(purchase.Note)).
		Suffix("RETURNING id, purchase_date, bags, price_per_bag, note, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var row flourPurchaseRow
	if err := pgxscan.Get(ctx, r.pool, &row, query, args...); err != nil {
		return nil, err
	}
	return flourPurchaseRowToDomain(&row), nil
}

// List retrieves all purchases ordered by date then insertion order
func (r *FlourPurchaseRepository) List() ([]*domain.FlourPurchase, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select(flourPurchaseColumns...).
		From("flour_purchases").
		OrderBy("purchase_date ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*flourPurchaseRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]*domain.FlourPurchase, len(rows))
	for i, row := range rows {
		result[i] = flourPurchaseRowToDomain(row)
	}
	return result, nil
}

// TotalsAsOf aggregates bag count and total cost of purchases dated at or
// before asOf
func (r *FlourPurchaseRepository) TotalsAsOf(asOf time.Time) (*domain.PurchaseTotals, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select("COALESCE(SUM(bags), 0) AS bags", "COALESCE(SUM(bags * price_per_bag), 0) AS cost").
		From("flour_purchases").
		Where(squirrel.LtOrEq{"purchase_date": pgDate(asOf)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var bags int64
	var cost pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&bags, &cost); err != nil {
		return nil, err
	}
	return &domain.PurchaseTotals{Bags: bags, Cost: pgNumericToDecimal(cost)}, nil
}
