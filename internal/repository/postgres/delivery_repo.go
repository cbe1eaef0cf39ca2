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
	"github.com/shopspring/decimal"

	"github.com/alshorouk/bakery-backend/internal/domain"
)

// DeliveryRepository implements domain.DeliveryRepository using PostgreSQL
type DeliveryRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryRepository creates a new DeliveryRepository
func NewDeliveryRepository(pool *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

var deliveryColumns = []string{
	"id", "delivery_date", "client_id", "bread_type", "units", "per_thousand",
	"revenue", "method", "account", "created_at",
}

type deliveryRow struct {
	ID           pgtype.UUID        `db:"id"`
	DeliveryDate pgtype.Date        `db:"delivery_date"`
	ClientID     int32              `db:"client_id"`
	BreadType    string             `db:"bread_type"`
	Units        int64              `db:"units"`
	PerThousand  int64              `db:"per_thousand"`
	Revenue      pgtype.Numeric     `db:"revenue"`
	Method       string             `db:"method"`
	Account      pgtype.Text        `db:"account"`
	CreatedAt    pgtype.Timestamptz `db:"created_at"`
}

func deliveryRowToDomain(row *deliveryRow) *domain.ClientDelivery {
	delivery := &domain.ClientDelivery{
		ID:           uuid.UUID(row.ID.Bytes),
		DeliveryDate: row.DeliveryDate.Time,
		ClientID:     row.ClientID,
		BreadType:    domain.BreadType(row.BreadType),
		Units:        row.Units,
		PerThousand:  row.PerThousand,
		Revenue:      pgNumericToDecimal(row.Revenue),
		Method:       domain.PaymentMethod(row.Method),
		CreatedAt:    row.CreatedAt.Time,
	}
	if row.Account.Valid {
		account := domain.Account(row.Account.String)
		delivery.Account = &account
	}
	return delivery
}

// Create inserts the delivery and its movement, if any, in one transaction
func (r *DeliveryRepository) Create(delivery *domain.ClientDelivery, movement *domain.MoneyMovement) (*domain.ClientDelivery, error) {
	ctx := context.Background()

	revenue, err := decimalToPgNumeric(delivery.Revenue)
	if err != nil {
		return nil, fmt.Errorf("invalid revenue: %w", err)
	}

	var account pgtype.Text
	if delivery.Account != nil {
		account = pgtype.Text{String: string(*delivery.Account), Valid: true}
	}

	query, args, err := qb().
		Insert("client_deliveries").
		Columns("id", "delivery_date", "client_id", "bread_type", "units", "per_thousand", "revenue", "method", "account").
		Values(pgUUID(delivery.ID), pgDate(delivery.DeliveryDate), delivery.ClientID, string(delivery.BreadType),
			delivery.Units, delivery.PerThousand, revenue, string(delivery.Method), account).
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

	if movement != nil {
		if _, err := insertMovement(ctx, tx, movement); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	delivery.CreatedAt = createdAt.Time
	return delivery, nil
}

// ListByClient retrieves a client's deliveries ordered by date
func (r *DeliveryRepository) ListByClient(clientID int32) ([]*domain.ClientDelivery, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select(deliveryColumns...).
		From("client_deliveries").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("delivery_date ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*deliveryRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]*domain.ClientDelivery, len(rows))
	for i, row := range rows {
		result[i] = deliveryRowToDomain(row)
	}
	return result, nil
}

// SumCreditRevenueByClient totals credit delivery revenue per client
func (r *DeliveryRepository) SumCreditRevenueByClient() ([]*domain.ClientAmount, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select("client_id", "COALESCE(SUM(revenue), 0) AS amount").
		From("client_deliveries").
		Where(squirrel.Eq{"method": string(domain.PaymentMethodCredit)}).
		GroupBy("client_id").
		OrderBy("client_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return scanClientAmounts(ctx, r.pool, query, args)
}

// SumRevenueInRange totals a client's delivery revenue, cash and credit, in
// [from, to]
func (r *DeliveryRepository) SumRevenueInRange(clientID int32, from, to time.Time) (decimal.Decimal, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select("COALESCE(SUM(revenue), 0)").
		From("client_deliveries").
		Where(squirrel.Eq{"client_id": clientID}).
		Where(squirrel.GtOrEq{"delivery_date": pgDate(from)}).
		Where(squirrel.LtOrEq{"delivery_date": pgDate(to)}).
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}

type clientAmountRow struct {
	ClientID int32          `db:"client_id"`
	Amount   pgtype.Numeric `db:"amount"`
}

func scanClientAmounts(ctx context.Context, db pgxscan.Querier, query string, args []any) ([]*domain.ClientAmount, error) {
	var rows []*clientAmountRow
	if err := pgxscan.Select(ctx, db, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]*domain.ClientAmount, len(rows))
	for i, row := range rows {
		result[i] = &domain.ClientAmount{
			ClientID: row.ClientID,
			Amount:   pgNumericToDecimal(row.Amount),
		}
	}
	return result, nil
}
