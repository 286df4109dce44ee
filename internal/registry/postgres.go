package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB defines the database operations used by PostgresStore.
// *pgxpool.Pool satisfies this interface.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the registry tree in the registry_nodes table. Each row
// records its parent path so child listings are a single indexed lookup.
type PostgresStore struct {
	db        DB
	namespace string
}

// NewPostgresStore creates a store scoped to namespace.
func NewPostgresStore(db DB, namespace string) *PostgresStore {
	return &PostgresStore{db: db, namespace: namespace}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM registry_nodes WHERE namespace = $1 AND path = $2`,
		s.namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w: %w", key, ErrUnavailable, err)
	}
	return value, nil
}

// Persist upserts key and inserts any missing ancestors with an empty value in
// the same statement.
func (s *PostgresStore) Persist(ctx context.Context, key, value string) error {
	ancestors := ancestorsOf(key)
	parents := make([]string, len(ancestors))
	for i, a := range ancestors {
		parents[i] = parentOf(a)
	}

	_, err := s.db.Exec(ctx,
		`WITH ancestors AS (
			INSERT INTO registry_nodes (namespace, path, parent, value, updated_at)
			SELECT $1, a.path, a.parent, '', now()
			FROM unnest($2::text[], $3::text[]) AS a(path, parent)
			ON CONFLICT (namespace, path) DO NOTHING
		)
		INSERT INTO registry_nodes (namespace, path, parent, value, updated_at)
		VALUES ($1, $4, $5, $6, now())
		ON CONFLICT (namespace, path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		s.namespace, ancestors, parents, key, parentOf(key), value,
	)
	if err != nil {
		return fmt.Errorf("persist %s: %w: %w", key, ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) GetChildrenKeys(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT path FROM registry_nodes WHERE namespace = $1 AND parent = $2 ORDER BY path COLLATE "C"`,
		s.namespace, key,
	)
	if err != nil {
		return nil, fmt.Errorf("list children of %s: %w: %w", key, ErrUnavailable, err)
	}
	defer rows.Close()

	children := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan child of %s: %w: %w", key, ErrUnavailable, err)
		}
		children = append(children, childName(key, path))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate children of %s: %w: %w", key, ErrUnavailable, err)
	}
	return children, nil
}
