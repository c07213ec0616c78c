package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PGConn is the subset of *pgxpool.Pool the store uses.
type PGConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const storageSchema = `
CREATE TABLE IF NOT EXISTS client_storage (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

// PGStore keeps storage keys per namespace (one namespace per device or session).
type PGStore struct {
	conn      PGConn
	namespace string
}

func NewPGStore(conn PGConn, namespace string) *PGStore {
	if namespace == "" {
		namespace = "default"
	}
	return &PGStore{conn: conn, namespace: namespace}
}

func (p *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, storageSchema); err != nil {
		return fmt.Errorf("create client_storage: %w", err)
	}
	return nil
}

func (p *PGStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := p.conn.QueryRow(ctx,
		`SELECT value FROM client_storage WHERE namespace=$1 AND key=$2`, p.namespace, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (p *PGStore) Set(ctx context.Context, key, value string) error {
	_, err := p.conn.Exec(ctx, `
INSERT INTO client_storage (namespace, key, value, updated_at)
VALUES ($1,$2,$3,now())
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
`, p.namespace, key, value)
	return err
}

func (p *PGStore) Remove(ctx context.Context, key string) error {
	_, err := p.conn.Exec(ctx, `DELETE FROM client_storage WHERE namespace=$1 AND key=$2`, p.namespace, key)
	return err
}
