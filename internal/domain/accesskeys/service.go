package accesskeys

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"hreval/internal/domain/auth"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) List(ctx context.Context, tenantID string) ([]Key, error) {
	return s.store.List(ctx, tenantID)
}

func (s *Service) Create(ctx context.Context, tenantID, createdBy, label string, modules []string, expiresAt *time.Time) (Created, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Created{}, ErrLabelRequired
	}
	modules, err := NormalizeModules(modules)
	if err != nil {
		return Created{}, err
	}
	if expiresAt != nil && !expiresAt.After(s.now()) {
		return Created{}, ErrExpiryInPast
	}

	secret, err := auth.NewOpaqueToken()
	if err != nil {
		return Created{}, err
	}
	plaintext := KeyPrefix + secret
	key := Key{
		TenantID:  tenantID,
		Label:     label,
		Prefix:    plaintext[:displayLength],
		Modules:   modules,
		Active:    true,
		ExpiresAt: expiresAt,
		CreatedBy: createdBy,
	}
	id, err := s.store.Create(ctx, tenantID, key, auth.HashToken(plaintext))
	if err != nil {
		return Created{}, err
	}
	stored, err := s.store.Get(ctx, tenantID, id)
	if err != nil {
		return Created{}, err
	}
	return Created{Key: stored, Plaintext: plaintext}, nil
}

func (s *Service) UpdateModules(ctx context.Context, tenantID, keyID string, modules []string) (Key, error) {
	modules, err := NormalizeModules(modules)
	if err != nil {
		return Key{}, err
	}
	if err := s.store.UpdateModules(ctx, tenantID, keyID, modules); err != nil {
		return Key{}, err
	}
	return s.store.Get(ctx, tenantID, keyID)
}

func (s *Service) Revoke(ctx context.Context, tenantID, keyID string) error {
	return s.store.Deactivate(ctx, tenantID, keyID)
}

// Authenticate resolves a plaintext key into the caller identity used by
// the rest of the request.
func (s *Service) Authenticate(ctx context.Context, plaintext string) (auth.UserContext, error) {
	plaintext = strings.TrimSpace(plaintext)
	if !strings.HasPrefix(plaintext, KeyPrefix) || len(plaintext) <= displayLength {
		return auth.UserContext{}, ErrInvalidKey
	}
	key, err := s.store.FindByHash(ctx, auth.HashToken(plaintext))
	if errors.Is(err, ErrKeyNotFound) {
		return auth.UserContext{}, ErrInvalidKey
	}
	if err != nil {
		return auth.UserContext{}, err
	}
	now := s.now()
	if !key.Active {
		return auth.UserContext{}, ErrInvalidKey
	}
	if key.Expired(now) {
		return auth.UserContext{}, ErrKeyExpired
	}
	if err := s.store.TouchLastUsed(ctx, key.ID, now); err != nil {
		slog.Warn("access key touch failed", "err", err, "key", key.Prefix)
	}
	return auth.UserContext{
		TenantID:    key.TenantID,
		AccessKeyID: key.ID,
		Modules:     key.Modules,
	}, nil
}

func (s *Service) DeactivateExpired(ctx context.Context) (int64, error) {
	return s.store.DeactivateExpired(ctx, s.now())
}

// NormalizeModules lower-cases, dedupes and sorts module names.
func NormalizeModules(modules []string) ([]string, error) {
	out := make([]string, 0, len(modules))
	for _, m := range modules {
		m = strings.ToLower(strings.TrimSpace(m))
		if !auth.ValidModule(m) {
			return nil, ErrInvalidModules
		}
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, ErrInvalidModules
	}
	slices.Sort(out)
	return out, nil
}
