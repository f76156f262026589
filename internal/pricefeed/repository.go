package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/zakat/internal/domain"
)

// ErrNoStoredTable indicates that no price table has been stored yet.
var ErrNoStoredTable = errors.New("no stored price table")

// StoredTable is a price table persisted after a successful fetch.
type StoredTable struct {
	Table     domain.PriceTable
	FetchedAt time.Time
}

// Repository persists the last good price tables.
type Repository interface {
	SaveTable(ctx context.Context, table domain.PriceTable, fetchedAt time.Time) error
	LatestTable(ctx context.Context) (StoredTable, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL price table repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) SaveTable(ctx context.Context, table domain.PriceTable, fetchedAt time.Time) error {
	data, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshaling price table: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO price_tables (fetched_at, data) VALUES ($1, $2::jsonb)`,
		fetchedAt, data)
	if err != nil {
		return fmt.Errorf("saving price table: %w", err)
	}
	return nil
}

func (r *PgRepository) LatestTable(ctx context.Context) (StoredTable, error) {
	var (
		st   StoredTable
		data []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT fetched_at, data FROM price_tables ORDER BY fetched_at DESC LIMIT 1`).
		Scan(&st.FetchedAt, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StoredTable{}, ErrNoStoredTable
		}
		return StoredTable{}, fmt.Errorf("getting latest price table: %w", err)
	}
	if err := json.Unmarshal(data, &st.Table); err != nil {
		return StoredTable{}, fmt.Errorf("decoding stored price table: %w", err)
	}
	if err := st.Table.Validate(); err != nil {
		return StoredTable{}, fmt.Errorf("stored price table: %w", err)
	}
	return st, nil
}
