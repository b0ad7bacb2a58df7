package accesskeys

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StoreAPI interface {
	List(ctx context.Context, tenantID string) ([]Key, error)
	Get(ctx context.Context, tenantID, keyID string) (Key, error)
	Create(ctx context.Context, tenantID string, key Key, hash string) (string, error)
	UpdateModules(ctx context.Context, tenantID, keyID string, modules []string) error
	Deactivate(ctx context.Context, tenantID, keyID string) error
	FindByHash(ctx context.Context, hash string) (Key, error)
	TouchLastUsed(ctx context.Context, keyID string, at time.Time) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

const keyColumns = `id, tenant_id, label, prefix, modules, active, expires_at, last_used_at,
           COALESCE(created_by::text, ''), created_at`

func scanKey(row pgx.Row) (Key, error) {
	var k Key
	err := row.Scan(&k.ID, &k.TenantID, &k.Label, &k.Prefix, &k.Modules, &k.Active, &k.ExpiresAt, &k.LastUsedAt, &k.CreatedBy, &k.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Key{}, ErrKeyNotFound
	}
	return k, err
}

func (s *Store) List(ctx context.Context, tenantID string) ([]Key, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+keyColumns+`
    FROM access_keys
    WHERE tenant_id = $1
    ORDER BY created_at DESC
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Key
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, tenantID, keyID string) (Key, error) {
	return scanKey(s.DB.QueryRow(ctx, `
    SELECT `+keyColumns+`
    FROM access_keys
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, keyID))
}

func (s *Store) Create(ctx context.Context, tenantID string, key Key, hash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO access_keys (tenant_id, label, prefix, key_hash, modules, expires_at, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, tenantID, key.Label, key.Prefix, hash, key.Modules, key.ExpiresAt, nullIfEmpty(key.CreatedBy)).Scan(&id)
	return id, err
}

func (s *Store) UpdateModules(ctx context.Context, tenantID, keyID string, modules []string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE access_keys SET modules = $3 WHERE tenant_id = $1 AND id = $2", tenantID, keyID, modules)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrKeyNotFound
	}
	return nil
}

func (s *Store) Deactivate(ctx context.Context, tenantID, keyID string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE access_keys SET active = false WHERE tenant_id = $1 AND id = $2", tenantID, keyID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrKeyNotFound
	}
	return nil
}

func (s *Store) FindByHash(ctx context.Context, hash string) (Key, error) {
	return scanKey(s.DB.QueryRow(ctx, `
    SELECT `+keyColumns+`
    FROM access_keys
    WHERE key_hash = $1
  `, hash))
}

func (s *Store) TouchLastUsed(ctx context.Context, keyID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE access_keys SET last_used_at = $2 WHERE id = $1", keyID, at)
	return err
}

func (s *Store) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE access_keys SET active = false
    WHERE active AND expires_at IS NOT NULL AND expires_at <= $1
  `, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
