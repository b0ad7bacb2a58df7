package announcements

import (
	"context"
	"time"
)

type StoreAPI interface {
	List(ctx context.Context, tenantID string) ([]Announcement, error)
	ListActive(ctx context.Context, tenantID string, now time.Time) ([]Announcement, error)
	Get(ctx context.Context, tenantID, id string) (Announcement, error)
	Create(ctx context.Context, tenantID string, a Announcement) (string, error)
	Update(ctx context.Context, tenantID string, a Announcement) error
	Delete(ctx context.Context, tenantID, id string) error
}
