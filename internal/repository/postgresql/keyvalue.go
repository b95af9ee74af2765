package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/storage"
	"github.com/jackc/pgx/v5"
)

const createKeyValueTable = `
	CREATE TABLE IF NOT EXISTS kv_entries (
		namespace  TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (namespace, key)
	)
`

// KeyValueRepository is a storage.KeyValueStore backed by a kv_entries
// table. Each namespace is an independent store.
type KeyValueRepository struct {
	db        *database.DB
	namespace string
}

var (
	_ storage.KeyValueStore = (*KeyValueRepository)(nil)
	_ storage.BatchSetter   = (*KeyValueRepository)(nil)
)

func NewKeyValueRepository(db *database.DB, namespace string) *KeyValueRepository {
	return &KeyValueRepository{db: db, namespace: namespace}
}

// Migrate creates the backing table when it does not exist.
func (r *KeyValueRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createKeyValueTable); err != nil {
		return fmt.Errorf("failed to create kv_entries: %w", err)
	}
	return nil
}

func (r *KeyValueRepository) Get(ctx context.Context, key string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT value FROM kv_entries WHERE namespace = $1 AND key = $2`

	var value string
	if err := q.QueryRow(ctx, query, r.namespace, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

func (r *KeyValueRepository) Set(ctx context.Context, key string, value string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO kv_entries (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, r.namespace, key, value); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// SetMany writes all entries in one transaction.
func (r *KeyValueRepository) SetMany(ctx context.Context, entries map[string]string) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		for key, value := range entries {
			if err := r.Set(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *KeyValueRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM kv_entries WHERE namespace = $1 AND key = ANY($2)`
	if _, err := q.Exec(ctx, query, r.namespace, keys); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}
