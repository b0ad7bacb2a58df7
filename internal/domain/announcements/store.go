package announcements

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

var _ StoreAPI = (*Store)(nil)

const columns = `id, title, body, severity, published, starts_at, ends_at, COALESCE(created_by::text, ''), created_at, updated_at`

func scan(row pgx.Row) (Announcement, error) {
	var a Announcement
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Severity, &a.Published, &a.StartsAt, &a.EndsAt, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Announcement{}, ErrNotFound
	}
	return a, err
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]Announcement, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Announcement
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) List(ctx context.Context, tenantID string) ([]Announcement, error) {
	return s.query(ctx, `
    SELECT `+columns+`
    FROM announcements
    WHERE tenant_id = $1
    ORDER BY starts_at DESC
  `, tenantID)
}

func (s *Store) ListActive(ctx context.Context, tenantID string, now time.Time) ([]Announcement, error) {
	return s.query(ctx, `
    SELECT `+columns+`
    FROM announcements
    WHERE tenant_id = $1 AND published AND starts_at <= $2 AND (ends_at IS NULL OR ends_at > $2)
    ORDER BY CASE severity WHEN 'critical' THEN 0 WHEN 'warning' THEN 1 ELSE 2 END, starts_at DESC
  `, tenantID, now)
}

func (s *Store) Get(ctx context.Context, tenantID, id string) (Announcement, error) {
	return scan(s.DB.QueryRow(ctx, "SELECT "+columns+" FROM announcements WHERE tenant_id = $1 AND id = $2", tenantID, id))
}

func (s *Store) Create(ctx context.Context, tenantID string, a Announcement) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO announcements (tenant_id, title, body, severity, published, starts_at, ends_at, created_by)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, tenantID, a.Title, a.Body, a.Severity, a.Published, a.StartsAt, a.EndsAt, nullIfEmpty(a.CreatedBy)).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, tenantID string, a Announcement) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE announcements
    SET title = $3, body = $4, severity = $5, published = $6, starts_at = $7, ends_at = $8, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, a.ID, a.Title, a.Body, a.Severity, a.Published, a.StartsAt, a.EndsAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM announcements WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
