package feature

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/waffle/pkg/pg"
)

// PostgresDB is the subset of *pgxpool.Pool used by PostgresProvider.
type PostgresDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresProvider stores toggles in the feature_flags table created by the
// pg package migrations.
type PostgresProvider struct {
	db  PostgresDB
	now func() time.Time
}

// NewPostgresProvider wraps a pool. The pool stays owned by the caller.
func NewPostgresProvider(db PostgresDB) *PostgresProvider {
	return &PostgresProvider{db: db, now: time.Now}
}

const (
	selectFlagSQL = `SELECT name, description, enabled, tags, created_at, updated_at
		FROM feature_flags WHERE name = $1`
	listFlagsSQL = `SELECT name, description, enabled, tags, created_at, updated_at
		FROM feature_flags ORDER BY name`
	upsertFlagSQL = `INSERT INTO feature_flags (name, description, enabled, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (name) DO UPDATE SET
			description = EXCLUDED.description,
			enabled = EXCLUDED.enabled,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at`
	deleteFlagSQL = `DELETE FROM feature_flags WHERE name = $1`
)

// IsEnabled reads the stored enabled state.
func (p *PostgresProvider) IsEnabled(ctx context.Context, name string) (bool, error) {
	flag, err := p.GetFlag(ctx, name)
	if err != nil {
		return false, err
	}
	return flag.Enabled, nil
}

// GetFlag returns the stored flag.
func (p *PostgresProvider) GetFlag(ctx context.Context, name string) (*Flag, error) {
	flag, err := scanFlag(p.db.QueryRow(ctx, selectFlagSQL, name))
	if pg.IsNotFoundError(err) {
		return nil, ErrFlagNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	return flag, nil
}

// ListFlags returns all stored flags ordered by name.
func (p *PostgresProvider) ListFlags(ctx context.Context) ([]*Flag, error) {
	rows, err := p.db.Query(ctx, listFlagsSQL)
	if err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	defer rows.Close()

	var out []*Flag
	for rows.Next() {
		flag, err := scanFlag(rows)
		if err != nil {
			return nil, errors.Join(ErrProviderUnavailable, err)
		}
		out = append(out, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrProviderUnavailable, err)
	}
	return out, nil
}

// SaveFlag upserts the flag; created_at of an existing row is kept.
func (p *PostgresProvider) SaveFlag(ctx context.Context, flag *Flag) error {
	if err := validateFlag(flag); err != nil {
		return err
	}
	tags := flag.Tags
	if tags == nil {
		tags = []string{}
	}
	if _, err := p.db.Exec(ctx, upsertFlagSQL,
		flag.Name, flag.Description, flag.Enabled, tags, p.now().UTC(),
	); err != nil {
		return errors.Join(ErrProviderUnavailable, err)
	}
	return nil
}

// DeleteFlag removes the flag.
func (p *PostgresProvider) DeleteFlag(ctx context.Context, name string) error {
	tag, err := p.db.Exec(ctx, deleteFlagSQL, name)
	if err != nil {
		return errors.Join(ErrProviderUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrFlagNotFound
	}
	return nil
}

// Close is a no-op; the pool belongs to the caller.
func (p *PostgresProvider) Close() error {
	return nil
}

func scanFlag(row pgx.Row) (*Flag, error) {
	var flag Flag
	if err := row.Scan(
		&flag.Name, &flag.Description, &flag.Enabled, &flag.Tags,
		&flag.CreatedAt, &flag.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &flag, nil
}
