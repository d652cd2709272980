package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// Postgres keeps every document as a JSONB row in a single documents table.
// The collection path is a plain text column, so "tenants/acme/cars" and
// "tenants/acme/cars/<id>/expenses" are independent collections.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) ListAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, fields FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()
	return scanDocuments(rows.Next, rows.Scan, rows.Err)
}

func (p *Postgres) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode fields for %s: %w", collection, err)
	}

	id := uuid.NewString()
	path := Join(collection, id)
	err = p.withRetry(ctx, func(ctx context.Context) error {
		_, execErr := p.pool.Exec(ctx, `
			INSERT INTO documents (id, collection, path, fields)
			VALUES ($1, $2, $3, $4)
		`, id, collection, path, encoded)
		return execErr
	})
	if err != nil {
		return "", fmt.Errorf("create in %s: %w", collection, err)
	}
	return id, nil
}

func (p *Postgres) Update(ctx context.Context, docPath string, partial map[string]any) error {
	encoded, err := json.Marshal(partial)
	if err != nil {
		return fmt.Errorf("encode fields for %s: %w", docPath, err)
	}

	err = p.withRetry(ctx, func(ctx context.Context) error {
		tag, execErr := p.pool.Exec(ctx, `
			UPDATE documents
			SET fields = fields || $2, updated_at = now()
			WHERE path = $1
		`, Join(docPath), encoded)
		if execErr != nil {
			return execErr
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, docPath)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("update %s: %w", docPath, err)
	}
	return nil
}

func (p *Postgres) Query(ctx context.Context, collection string, field, op string, value any) ([]Document, error) {
	if op != "==" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
	}

	// fields->>key yields text, so the comparison value is rendered the way
	// JSON renders it (numbers without quotes).
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode query value: %w", err)
	}
	text := string(encoded)
	if len(text) >= 2 && text[0] == '"' {
		var s string
		_ = json.Unmarshal(encoded, &s)
		text = s
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, fields FROM documents
		WHERE collection = $1 AND fields->>$2 = $3
		ORDER BY created_at, id
	`, collection, field, text)
	if err != nil {
		return nil, fmt.Errorf("query %s.%s: %w", collection, field, err)
	}
	defer rows.Close()
	return scanDocuments(rows.Next, rows.Scan, rows.Err)
}

// withRetry retries writes that pgx reports as safe to retry (connection
// establishment failures, writes that never reached the server).
func (p *Postgres) withRetry(ctx context.Context, op func(context.Context) error) error {
	backoff := retry.WithMaxRetries(3, retry.NewConstant(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && pgconn.SafeToRetry(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

func scanDocuments(next func() bool, scan func(...any) error, rowsErr func() error) ([]Document, error) {
	var out []Document
	for next() {
		var id string
		var raw []byte
		if err := scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		fields := map[string]any{}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &fields); err != nil {
				return nil, fmt.Errorf("decode document %s: %w", id, err)
			}
		}
		out = append(out, Document{ID: id, Fields: fields})
	}
	if err := rowsErr(); err != nil {
		return nil, err
	}
	return out, nil
}
