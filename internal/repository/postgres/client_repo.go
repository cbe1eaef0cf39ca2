package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alshorouk/bakery-backend/internal/domain"
)

// ClientRepository implements domain.ClientRepository using PostgreSQL
type ClientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

var clientColumns = []string{"id", "name", "active", "created_at", "updated_at"}

type clientRow struct {
	ID        int32              `db:"id"`
	Name      string             `db:"name"`
	Active    bool               `db:"active"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
	UpdatedAt pgtype.Timestamptz `db:"updated_at"`
}

func clientRowToDomain(row *clientRow) *domain.Client {
	return &domain.Client{
		ID:        row.ID,
		Name:      row.Name,
		Active:    row.Active,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}

// Create inserts a client
func (r *ClientRepository) Create(client *domain.Client) (*domain.Client, error) {
	ctx := context.Background()

	query, args, err := qb().
		Insert("clients").
		Columns("name", "active").
		Values(client.Name, client.Active).
		Suffix("RETURNING id, name, active, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	var row clientRow
	if err := pgxscan.Get(ctx, r.pool, &row, query, args...); err != nil {
		return nil, err
	}
	return clientRowToDomain(&row), nil
}

// GetByID retrieves a client by its ID
func (r *ClientRepository) GetByID(id int32) (*domain.Client, error) {
	ctx := context.Background()

	query, args, err := qb().
		Select(clientColumns...).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row clientRow
	if err := pgxscan.Get(ctx, r.pool, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return clientRowToDomain(&row), nil
}

// List retrieves clients ordered by id, optionally including disabled ones
func (r *ClientRepository) List(includeInactive bool) ([]*domain.Client, error) {
	ctx := context.Background()

	q := qb().
		Select(clientColumns...).
		From("clients").
		OrderBy("id ASC")
	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*clientRow
	if err := pgxscan.Select(ctx, r.pool, &rows, query, args...); err != nil {
		return nil, err
	}

	result := make([]*domain.Client, len(rows))
	for i, row := range rows {
		result[i] = clientRowToDomain(row)
	}
	return result, nil
}

// SetActive flips a client's active flag
func (r *ClientRepository) SetActive(id int32, active bool) (*domain.Client, error) {
	ctx := context.Background()

	query, args, err := qb().
		Update("clients").
		Set("active", active).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, active, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	var row clientRow
	if err := pgxscan.Get(ctx, r.pool, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return clientRowToDomain(&row), nil
}
