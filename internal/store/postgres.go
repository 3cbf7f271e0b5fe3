// Package store provides the record store implementations: a Postgres-backed
// production store and an in-memory store with the same contract.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salespipe/salespipe/internal/core"
)

// salesSchema creates the single sales table on startup if it is absent.
// The id is assigned by the store, not by a sequence, so a bulk reload can
// reset ids to a dense 1..N without fighting sequence state.
const salesSchema = `
CREATE TABLE IF NOT EXISTS sales (
	id          BIGINT PRIMARY KEY,
	date        DATE,
	customer_id BIGINT NOT NULL,
	product     TEXT,
	quantity    DOUBLE PRECISION,
	unit_price  DOUBLE PRECISION,
	total_price DOUBLE PRECISION
)`

const selectColumns = `id, date, customer_id, product, quantity, unit_price, total_price`

const insertSQL = `
INSERT INTO sales (id, date, customer_id, product, quantity, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Postgres is the production record store, one row per sales record.
//
// All mutating operations run inside transactions and are additionally
// serialized by a store-level mutex, so id assignment and full-table
// replacement are race-free under concurrent requests while readers only
// ever observe committed state.
type Postgres struct {
	pool *pgxpool.Pool
	mu   sync.Mutex
}

// NewPostgres verifies the schema and returns the store.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, salesSchema); err != nil {
		return nil, fmt.Errorf("create sales table: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// ReplaceAll discards every existing row and inserts the given records in a
// single transaction. Concurrent readers observe either the old table or
// the new one, never a mix.
func (s *Postgres) ReplaceAll(ctx context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storageErr("begin replace", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sales`); err != nil {
		return storageErr("clear table", err)
	}

	for _, rec := range records {
		if _, err := tx.Exec(ctx, insertSQL, insertArgs(rec)...); err != nil {
			return storageErr(fmt.Sprintf("insert row %d", rec.ID), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return storageErr("commit replace", err)
	}
	return nil
}

// GetAll returns all records in id order.
func (s *Postgres) GetAll(ctx context.Context) ([]core.Record, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+selectColumns+` FROM sales ORDER BY id`)
	if err != nil {
		return nil, storageErr("query all", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("scan row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query all", err)
	}
	return records, nil
}

// GetByID returns the record with the given id, or core.ErrNotFound.
func (s *Postgres) GetByID(ctx context.Context, id int64) (core.Record, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM sales WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Record{}, core.ErrNotFound
	}
	if err != nil {
		return core.Record{}, storageErr("query by id", err)
	}
	return rec, nil
}

// Insert assigns id = max(existing)+1 (1 when empty) and stores the record.
// The subselect and the store mutex together keep assignment serialized.
func (s *Postgres) Insert(ctx context.Context, rec core.Record) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.pool.QueryRow(ctx, `
		INSERT INTO sales (id, date, customer_id, product, quantity, unit_price, total_price)
		VALUES ((SELECT COALESCE(MAX(id), 0) + 1 FROM sales), $1, $2, $3, $4, $5, $6)
		RETURNING id`,
		dateArg(rec.Date), rec.CustomerID, rec.Product, rec.Quantity, rec.UnitPrice, rec.TotalPrice,
	)
	if err := row.Scan(&rec.ID); err != nil {
		return core.Record{}, storageErr("insert", err)
	}
	return rec, nil
}

// Update merges fields into the stored record inside one transaction: read
// current row, merge and recompute via core.UpdateFields, write back.
func (s *Postgres) Update(ctx context.Context, id int64, fields core.UpdateFields) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return core.Record{}, storageErr("begin update", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+selectColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Record{}, core.ErrNotFound
	}
	if err != nil {
		return core.Record{}, storageErr("read for update", err)
	}

	fields.ApplyTo(&rec)

	_, err = tx.Exec(ctx, `
		UPDATE sales
		SET date = $1, customer_id = $2, product = $3, quantity = $4, unit_price = $5, total_price = $6
		WHERE id = $7`,
		dateArg(rec.Date), rec.CustomerID, rec.Product, rec.Quantity, rec.UnitPrice, rec.TotalPrice, rec.ID,
	)
	if err != nil {
		return core.Record{}, storageErr("update", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return core.Record{}, storageErr("commit update", err)
	}
	return rec, nil
}

// DeleteByID removes the row if present, reporting core.ErrNotFound when
// zero rows were affected.
func (s *Postgres) DeleteByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tag, err := s.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (core.Record, error) {
	var (
		rec  core.Record
		date pgtype.Date
	)
	err := row.Scan(&rec.ID, &date, &rec.CustomerID, &rec.Product, &rec.Quantity, &rec.UnitPrice, &rec.TotalPrice)
	if err != nil {
		return core.Record{}, err
	}
	if date.Valid {
		rec.Date = core.NewDate(date.Time)
	}
	return rec, nil
}

func insertArgs(rec core.Record) []any {
	return []any{rec.ID, dateArg(rec.Date), rec.CustomerID, rec.Product, rec.Quantity, rec.UnitPrice, rec.TotalPrice}
}

func dateArg(d *core.Date) pgtype.Date {
	if d == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time, Valid: true}
}

func storageErr(op string, err error) error {
	return &core.StorageError{Op: op, Err: err}
}
