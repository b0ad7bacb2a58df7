package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"time"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func New(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID, ip string, before, after any) error {
	return s.RecordEntry(ctx, Entry{
		TenantID:   tenantID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID,
		IP:         ip,
		Before:     before,
		After:      after,
	})
}

func (s *Service) RecordEntry(ctx context.Context, entry Entry) error {
	evt := Event{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		RequestID:  entry.RequestID,
		IP:         entry.IP,
	}
	var err error
	if evt.Before, err = marshalState(entry.Before); err != nil {
		return err
	}
	if evt.After, err = marshalState(entry.After); err != nil {
		return err
	}
	return s.store.Insert(ctx, entry.TenantID, evt)
}

func (s *Service) List(ctx context.Context, tenantID string, filter Filter, includeDetails bool, limit, offset int) ([]Event, int, error) {
	total, err := s.store.Count(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	events, err := s.store.List(ctx, tenantID, filter, includeDetails, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *Service) Export(ctx context.Context, tenantID string, filter Filter, w io.Writer) error {
	events, err := s.store.List(ctx, tenantID, filter, false, 0, 0)
	if err != nil {
		return err
	}
	return WriteCSV(w, events)
}

// Purge deletes events older than retentionDays. A non-positive retention
// keeps everything.
func (s *Service) Purge(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	return s.store.DeleteBefore(ctx, cutoff)
}

func WriteCSV(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "created_at", "actor_id", "action", "entity_type", "entity_id", "request_id", "ip"}); err != nil {
		return err
	}
	for _, evt := range events {
		if err := cw.Write([]string{
			evt.ID,
			evt.CreatedAt.UTC().Format(time.RFC3339),
			evt.ActorID,
			evt.Action,
			evt.EntityType,
			evt.EntityID,
			evt.RequestID,
			evt.IP,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func marshalState(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return payload, nil
}
