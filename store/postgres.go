package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/xerrors"

	"questboard-indexer/models"
)

//go:embed schema.sql
var schemaSQL string

type (
	// Postgres keeps every entity as a JSONB document in one table keyed by
	// (kind, id), so foreign-key lookups are JSON field filters.
	Postgres struct {
		pool *pgxpool.Pool
	}

	postgresTx struct {
		q querier
	}

	// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
	querier interface {
		Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	}
)

var _ Store = (*Postgres)(nil)

// NewPostgres wraps the pool and applies the schema.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return nil, xerrors.Errorf("failed to apply schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, kind models.Kind, id models.ID, out any) error {
	return getDocument(ctx, p.pool, kind, id, out)
}

func (p *Postgres) List(ctx context.Context, kind models.Kind, filters []Filter, page Page) ([]json.RawMessage, error) {
	if err := validateFilters(filters); err != nil {
		return nil, err
	}
	page = page.normalize()

	query := `SELECT data FROM entities WHERE kind = $1`
	args := []any{string(kind)}
	argIndex := 2
	for _, f := range filters {
		query += " AND data->>$" + strconv.Itoa(argIndex) + " = $" + strconv.Itoa(argIndex+1)
		args = append(args, f.Field, f.Value)
		argIndex += 2
	}
	query += " ORDER BY length(id), id LIMIT $" + strconv.Itoa(argIndex) + " OFFSET $" + strconv.Itoa(argIndex+1)
	args = append(args, page.Limit, page.Offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, xerrors.Errorf("failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	result := []json.RawMessage{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, xerrors.Errorf("failed to scan %s row: %w", kind, err)
		}
		result = append(result, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Errorf("failed to iterate %s rows: %w", kind, err)
	}
	return result, nil
}

func (p *Postgres) Cursor(ctx context.Context, name string) (Cursor, bool, error) {
	var c Cursor
	var blockNumber, logIndex int64
	err := p.pool.QueryRow(ctx,
		`SELECT block_number, log_index FROM indexer_cursors WHERE name = $1`, name,
	).Scan(&blockNumber, &logIndex)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c, false, nil
		}
		return c, false, xerrors.Errorf("failed to read cursor %s: %w", name, err)
	}
	c.BlockNumber = uint64(blockNumber)
	c.LogIndex = uint(logIndex)
	return c, true, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		return fn(ctx, &postgresTx{q: tx})
	})
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (t *postgresTx) Get(ctx context.Context, kind models.Kind, id models.ID, out any) error {
	return getDocument(ctx, t.q, kind, id, out)
}

func (t *postgresTx) Put(ctx context.Context, entity models.Entity) error {
	doc, err := json.Marshal(entity)
	if err != nil {
		return xerrors.Errorf("failed to encode %s %s: %w", entity.EntityKind(), entity.EntityID(), err)
	}
	_, err = t.q.Exec(ctx, `
		INSERT INTO entities (kind, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, id) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = now()
	`, string(entity.EntityKind()), string(entity.EntityID()), string(doc))
	if err != nil {
		return xerrors.Errorf("failed to save %s %s: %w", entity.EntityKind(), entity.EntityID(), err)
	}
	return nil
}

func (t *postgresTx) SetCursor(ctx context.Context, name string, cursor Cursor) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO indexer_cursors (name, block_number, log_index)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			block_number = EXCLUDED.block_number,
			log_index = EXCLUDED.log_index,
			updated_at = now()
	`, name, int64(cursor.BlockNumber), int64(cursor.LogIndex))
	if err != nil {
		return xerrors.Errorf("failed to save cursor %s: %w", name, err)
	}
	return nil
}

func getDocument(ctx context.Context, q querier, kind models.Kind, id models.ID, out any) error {
	var doc []byte
	err := q.QueryRow(ctx,
		`SELECT data FROM entities WHERE kind = $1 AND id = $2`, string(kind), string(id),
	).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return xerrors.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return xerrors.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	return decode(doc, kind, id, out)
}
