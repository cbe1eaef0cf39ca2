package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/alshorouk/bakery-backend/internal/domain"
)

// MovementRepository implements domain.MovementRepository using PostgreSQL
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

var movementColumns = []string{
	"id", "movement_date", "account", "amount", "reason", "source_id", "created_at",
}

type movementRow struct {
	ID           int64              `db:"id"`
	MovementDate pgtype.Date        `db:"movement_date"`
	Account      string             `db:"account"`
	Amount       pgtype.Numeric     `db:"amount"`
	Reason       string             `db:"reason"`
	SourceID     pgtype.UUID        `db:"source_id"`
	CreatedAt    pgtype.Timestamptz `db:"created_at"`
}

func movementRowToDomain(row *movementRow) *domain.MoneyMovement {
	return &domain.MoneyMovement{
		ID:           row.ID,
		MovementDate: row.MovementDate.Time,
		Account:      domain.Account(row.Account),
		Amount:       pgNumericToDecimal(row.Amount),
		Reason:       row.Reason,
		SourceID:     uuidPtr(row.SourceID),
		CreatedAt:    row.CreatedAt.Time,
	}
}

// insertMovement inserts one movement using the given querier, which may be a
// pool or an open transaction.
func insertMovement(ctx context.Context, db pgxscan.Querier, movement *domain.MoneyMovement) (*domain.MoneyMovement, error) {
	amount, err := decimalToPgNumeric(movement.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query, args, err := qb().
		Insert("money_movements").
		Columns("movement_date", "account", "amount", "reason", "source_id").
		Values(pgDate(movement.MovementDate), string(movement.Account), amount, movement.Reason, pgUUIDPtr(movement.SourceID)).
		Suffix("RETURNING id, movement_date, account, amount, reason, source_id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var row movementRow
	if err := pgxscan.Get(ctx, db, &row, query, args...); err != nil {
		return nil, err
	}
	return movementRowToDomain(&row), nil
}

// Create appends one ledger movement
func (r *MovementRepository) Create(movement *domain.MoneyMovement) (*domain.MoneyMovement, error) {
	return insertMovement(context.Background(), r.pool, movement)
}

// List retrieves movements matching the filter, newest first
func (r *MovementRepository) List(filter *domain.MovementFilter) ([]*domain.MoneyMovement, error) {
	ctx := context.Background()

	q := qb().
		Select(movementColumns...).
		From("money_movements").
		OrderBy("movement_date DESC", "id DESC")

	if filter != nil {
		if filter.Account != nil {
			q = q.Where(squirrel.Eq{"account": string(*filter.Account)})
		}
		if filter.StartDate != nil {
			q = q.Where(squirrel.GtOrEq{"movement_date": pgDate(*filter.StartDate)})
		}
		if filter.EndDate != nil {
			q = q.Where(squirrel.LtOrEq{"movement_date": pgDate(*filter.EndDate)})
		}
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*movementRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]*domain.MoneyMovement, len(rows))
	for i, row := range rows {
		result[i] = movementRowToDomain(row)
	}
	return result, nil
}

// SumByAccount sums movement amounts for an account up to an optional
// inclusive cutoff date
func (r *MovementRepository) SumByAccount(account domain.Account, asOf *time.Time) (decimal.Decimal, error) {
	ctx := context.Background()

	q := qb().
		Select("COALESCE(SUM(amount), 0)").
		From("money_movements").
		Where(squirrel.Eq{"account": string(account)})
	if asOf != nil {
		q = q.Where(squirrel.LtOrEq{"movement_date": pgDate(*asOf)})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}

	var total pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(total), nil
}
