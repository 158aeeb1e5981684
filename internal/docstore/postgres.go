package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Postgres stores documents as JSONB rows keyed by (collection, id).
// Sub-collections are plain collections with a path-shaped name, so no
// schema work is needed per feature.
type Postgres struct {
	q querier
	// db is nil inside a transaction view.
	db *sql.DB
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewPostgres creates the store and ensures the documents table exists.
func NewPostgres(ctx context.Context, db *sql.DB) (*Postgres, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			fields     JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("docstore: ensure table: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS documents_fields_idx
		ON documents USING GIN (fields jsonb_path_ops)
	`)
	if err != nil {
		return nil, fmt.Errorf("docstore: ensure index: %w", err)
	}
	return &Postgres{q: db, db: db}, nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Doc, error) {
	row := p.q.QueryRowContext(ctx, `
		SELECT fields FROM documents WHERE collection = $1 AND id = $2
	`, collection, id)
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Doc{}, ErrNotFound
		}
		return Doc{}, err
	}
	fields, err := decodeFields(raw)
	if err != nil {
		return Doc{}, err
	}
	return Doc{ID: id, Fields: fields}, nil
}

func (p *Postgres) Query(ctx context.Context, collection, field string, op Op, value any) ([]Doc, error) {
	query := `SELECT id, fields FROM documents WHERE collection = $1`
	args := []any{collection}

	if field != "" {
		if _, err := describeOp(op); err != nil {
			return nil, err
		}
		switch op {
		case OpEqual:
			probe, err := json.Marshal(Fields{field: value})
			if err != nil {
				return nil, err
			}
			query += ` AND fields @> $2::jsonb`
			args = append(args, string(probe))
		case OpArrayContains:
			probe, err := json.Marshal([]any{value})
			if err != nil {
				return nil, err
			}
			query += ` AND fields->$2 @> $3::jsonb`
			args = append(args, field, string(probe))
		}
	}

	rows, err := p.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Doc
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return nil, err
		}
		res = append(res, Doc{ID: id, Fields: fields})
	}
	return res, rows.Err()
}

func (p *Postgres) Add(ctx context.Context, collection string, fields Fields) (string, error) {
	id := uuid.NewString()
	if err := p.Set(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (p *Postgres) Set(ctx context.Context, collection, id string, fields Fields) error {
	raw, err := json.Marshal(resolveTimestamps(fields, time.Now()))
	if err != nil {
		return fmt.Errorf("docstore: encode fields: %w", err)
	}
	_, err = p.q.ExecContext(ctx, `
		INSERT INTO documents (collection, id, fields)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET
			fields = EXCLUDED.fields,
			updated_at = NOW()
	`, collection, id, raw)
	return err
}

func (p *Postgres) Update(ctx context.Context, collection, id string, partial Fields) error {
	raw, err := json.Marshal(resolveTimestamps(partial, time.Now()))
	if err != nil {
		return fmt.Errorf("docstore: encode fields: %w", err)
	}
	res, err := p.q.ExecContext(ctx, `
		UPDATE documents
		SET fields = fields || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`, collection, id, raw)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	_, err := p.q.ExecContext(ctx, `
		DELETE FROM documents WHERE collection = $1 AND id = $2
	`, collection, id)
	return err
}

// RunAtomic runs fn inside a SQL transaction. A store already inside a
// transaction reuses it.
func (p *Postgres) RunAtomic(ctx context.Context, fn func(Store) error) error {
	if p.db == nil {
		return fn(p)
	}
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	view := &Postgres{q: tx}
	if err := fn(view); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func decodeFields(raw []byte) (Fields, error) {
	var fields Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("docstore: decode fields: %w", err)
	}
	if fields == nil {
		fields = Fields{}
	}
	return fields, nil
}
