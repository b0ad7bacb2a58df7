package announcements

import (
	"context"
	"slices"
	"strings"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func New(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]Announcement, error) {
	return s.store.List(ctx, tenantID)
}

func (s *Service) Active(ctx context.Context, tenantID string) ([]Announcement, error) {
	return s.store.ListActive(ctx, tenantID, s.now())
}

func (s *Service) Get(ctx context.Context, tenantID, id string) (Announcement, error) {
	return s.store.Get(ctx, tenantID, id)
}

func (s *Service) Create(ctx context.Context, tenantID string, a Announcement) (Announcement, error) {
	a, err := s.normalize(a)
	if err != nil {
		return Announcement{}, err
	}
	id, err := s.store.Create(ctx, tenantID, a)
	if err != nil {
		return Announcement{}, err
	}
	return s.store.Get(ctx, tenantID, id)
}

func (s *Service) Update(ctx context.Context, tenantID string, a Announcement) (Announcement, error) {
	a, err := s.normalize(a)
	if err != nil {
		return Announcement{}, err
	}
	if err := s.store.Update(ctx, tenantID, a); err != nil {
		return Announcement{}, err
	}
	return s.store.Get(ctx, tenantID, a.ID)
}

func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	return s.store.Delete(ctx, tenantID, id)
}

func (s *Service) normalize(a Announcement) (Announcement, error) {
	a.Title = strings.TrimSpace(a.Title)
	a.Body = strings.TrimSpace(a.Body)
	a.Severity = strings.ToLower(strings.TrimSpace(a.Severity))
	if a.Title == "" {
		return a, ErrTitleRequired
	}
	if a.Severity == "" {
		a.Severity = SeverityInfo
	}
	if !slices.Contains(Severities, a.Severity) {
		return a, ErrInvalidSeverity
	}
	if a.StartsAt.IsZero() {
		a.StartsAt = s.now()
	}
	if a.EndsAt != nil && !a.EndsAt.After(a.StartsAt) {
		return a, ErrInvalidWindow
	}
	return a, nil
}
