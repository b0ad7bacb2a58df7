package accesskeys

import (
	"errors"
	"time"
)

const (
	// KeyPrefix marks plaintext keys so they are recognizable in configs and logs.
	KeyPrefix     = "hrk_"
	displayLength = len(KeyPrefix) + 8
)

var (
	ErrKeyNotFound    = errors.New("access key not found")
	ErrLabelRequired  = errors.New("label is required")
	ErrInvalidModules = errors.New("modules must be a non-empty subset of the known modules")
	ErrExpiryInPast   = errors.New("expiry must be in the future")
	ErrInvalidKey     = errors.New("invalid access key")
	ErrKeyExpired     = errors.New("access key expired")
)

type Key struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"-"`
	Label      string     `json:"label"`
	Prefix     string     `json:"prefix"`
	Modules    []string   `json:"modules"`
	Active     bool       `json:"active"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedBy  string     `json:"createdBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Expired reports whether the key is past its expiry at now.
func (k Key) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && !now.Before(*k.ExpiresAt)
}

// Created is returned once, at creation. The plaintext is not stored.
type Created struct {
	Key       Key    `json:"key"`
	Plaintext string `json:"plaintext"`
}
