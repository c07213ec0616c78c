package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"coffee-shop/internal/domain"
)

var ErrNotFound = errors.New("table not found")

type TablesRepositoryInterface interface {
	EnsureSchema(ctx context.Context) error
	List(ctx context.Context) ([]domain.Table, error)
	Get(ctx context.Context, id int) (domain.Table, error)
	ListByStatus(ctx context.Context, status domain.TableStatus) ([]domain.Table, error)
	CountByStatus(ctx context.Context) (map[domain.TableStatus]int, error)
	History(ctx context.Context, id, limit, offset int) ([]domain.StatusChange, error)

	// UpdateStatusTx locks the row, sets the new status and appends the status log.
	// It returns the status the table had before.
	UpdateStatusTx(ctx context.Context, id int, status domain.TableStatus, changedBy string) (domain.TableStatus, error)
}

type TablesRepository struct {
	db DB
}

func NewTablesRepository(db DB) TablesRepositoryInterface {
	return &TablesRepository{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS coffee_tables (
	id           SERIAL PRIMARY KEY,
	table_number TEXT NOT NULL,
	capacity     INT  NOT NULL DEFAULT 2,
	status       TEXT NOT NULL DEFAULT 'Available',
	location     TEXT NOT NULL DEFAULT '',
	active       BOOLEAN NOT NULL DEFAULT TRUE,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS table_status_log (
	id         SERIAL PRIMARY KEY,
	table_id   INT  NOT NULL REFERENCES coffee_tables(id),
	old_status TEXT NOT NULL,
	new_status TEXT NOT NULL,
	changed_by TEXT NOT NULL,
	changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const selectTable = `SELECT id, table_number, capacity, status, location, active, updated_at FROM coffee_tables`

func (r *TablesRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create tables schema: %w", err)
	}
	return nil
}

func (r *TablesRepository) List(ctx context.Context) ([]domain.Table, error) {
	return r.query(ctx, selectTable+` ORDER BY id`)
}

func (r *TablesRepository) ListByStatus(ctx context.Context, status domain.TableStatus) ([]domain.Table, error) {
	return r.query(ctx, selectTable+` WHERE status=$1 ORDER BY id`, string(status))
}

func (r *TablesRepository) Get(ctx context.Context, id int) (domain.Table, error) {
	row := r.db.QueryRow(ctx, selectTable+` WHERE id=$1`, id)
	t, err := scanTable(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, ErrNotFound
	}
	return t, err
}

func (r *TablesRepository) CountByStatus(ctx context.Context) (map[domain.TableStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM coffee_tables GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.TableStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[domain.TableStatus(status)] = n
	}
	return out, rows.Err()
}

func (r *TablesRepository) History(ctx context.Context, id, limit, offset int) ([]domain.StatusChange, error) {
	rows, err := r.db.Query(ctx, `
SELECT old_status, new_status, changed_by, changed_at
FROM table_status_log WHERE table_id=$1
ORDER BY changed_at ASC, id ASC
LIMIT $2 OFFSET $3
`, id, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.StatusChange{}
	for rows.Next() {
		var (
			c        domain.StatusChange
			old, neu string
		)
		if err := rows.Scan(&old, &neu, &c.ChangedBy, &c.ChangedAt); err != nil {
			return nil, err
		}
		c.OldStatus, c.NewStatus = domain.TableStatus(old), domain.TableStatus(neu)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *TablesRepository) UpdateStatusTx(ctx context.Context, id int, status domain.TableStatus, changedBy string) (domain.TableStatus, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var old string
	err = tx.QueryRow(ctx, `SELECT status FROM coffee_tables WHERE id=$1 FOR UPDATE`, id).Scan(&old)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lock table %d: %w", id, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE coffee_tables SET status=$2, updated_at=now() WHERE id=$1`, id, string(status)); err != nil {
		return "", fmt.Errorf("update table %d: %w", id, err)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO table_status_log (table_id, old_status, new_status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, now())
	`, id, old, string(status), changedBy); err != nil {
		return "", fmt.Errorf("insert status log: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return domain.TableStatus(old), nil
}

func (r *TablesRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Table, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Table{}
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTable(row pgx.Row) (domain.Table, error) {
	var (
		t      domain.Table
		status string
	)
	if err := row.Scan(&t.ID, &t.TableNumber, &t.Capacity, &status, &t.Location, &t.Active, &t.UpdatedAt); err != nil {
		return domain.Table{}, err
	}
	t.Status = domain.TableStatus(status)
	return t, nil
}
