package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alshorouk/bakery-backend/internal/domain"
)

// PaymentRepository implements domain.PaymentRepository using PostgreSQL
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

var paymentColumns = []string{
	"id", "payment_date", "client_id", "amount", "account", "note", "created_at",
}

type paymentRow struct {
	ID          pgtype.UUID        `db:"id"`
	PaymentDate pgtype.Date        `db:"payment_date"`
	ClientID    int32              `db:"client_id"`
	Amount      pgtype.Numeric     `db:"amount"`
	Account     string             `db:"account"`
	Note        pgtype.Text        `db:"note"`
	CreatedAt   pgtype.Timestamptz `db:"created_at"`
}

func paymentRowToDomain(row *paymentRow) *domain.ClientPayment {
	return &domain.ClientPayment{
		ID:          uuid.UUID(row.ID.Bytes),
		PaymentDate: row.PaymentDate.Time,
		ClientID:    row.ClientID,
		Amount:      pgNumericToDecimal(row.Amount),
		Account:     domain.Account(row.Account),
		Note:        textPtr(row.Note),
		CreatedAt:   row.CreatedAt.Time,
	}
}

// Create inserts the payment and its movement in one transaction
func (r *PaymentRepository) Create(payment *domain.ClientPayment, movement *domain.MoneyMovement) (*domain.ClientPayment, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(payment.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	query, args, err := qb().
		Insert("client_payments").
		Columns("id", "payment_date", "client_id", "amount", "account", "note").
		Values(pgUUID(payment.ID), pgDate(payment.PaymentDate), payment.ClientID, amount,
			string(payment.Account), pgTextPtr(payment.Note)).
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

	payment.CreatedAt = createdAt.Time
	return payment, nil
}

// ListByClient retrieves a client's payments ordered by date
func (r *PaymentRepository) ListByClient(clientID int32) ([]*domain.ClientPayment, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select(paymentColumns...).
		From("client_payments").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("payment_date ASC", "created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*paymentRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]*domain.ClientPayment, len(rows))
	for i, row := range rows {
		result[i] = paymentRowToDomain(row)
	}
	return result, nil
}

// SumByClient totals payments per client
func (r *PaymentRepository) SumByClient() ([]*domain.ClientAmount, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select("client_id", "COALESCE(SUM(amount), 0) AS amount").
		From("client_payments").
		GroupBy("client_id").
		OrderBy("client_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	return scanClientAmounts(ctx, r.pool, query, args)
}
