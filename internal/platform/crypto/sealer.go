// Package crypto seals small secrets (TOTP seeds) for storage.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// sealVersion prefixes every sealed value so the format can change later.
const sealVersion byte = 1

var (
	ErrNotConfigured = errors.New("DATA_ENCRYPTION_KEY is not configured")
	ErrMalformed     = errors.New("sealed value is malformed")
)

// Sealer encrypts with AES-256-GCM. The zero Sealer is unconfigured and
// refuses to seal anything.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer accepts a 32 byte key encoded as hex or base64. An empty key
// yields an unconfigured sealer.
func NewSealer(key string) (*Sealer, error) {
	if key == "" {
		return &Sealer{}, nil
	}
	raw, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Configured() bool {
	return s != nil && s.aead != nil
}

func (s *Sealer) Seal(plain []byte) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	out := make([]byte, 0, 1+len(nonce)+len(plain)+s.aead.Overhead())
	out = append(out, sealVersion)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plain, nil), nil
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	n := s.aead.NonceSize()
	if len(sealed) < 1+n || sealed[0] != sealVersion {
		return nil, ErrMalformed
	}
	plain, err := s.aead.Open(nil, sealed[1:1+n], sealed[1+n:], nil)
	if err != nil {
		return nil, fmt.Errorf("open sealed value: %w", err)
	}
	return plain, nil
}

func (s *Sealer) EncryptString(value string) ([]byte, error) {
	return s.Seal([]byte(value))
}

func (s *Sealer) DecryptString(value []byte) (string, error) {
	plain, err := s.Open(value)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func decodeKey(encoded string) ([]byte, error) {
	candidates := []func(string) ([]byte, error){
		hex.DecodeString,
		base64.StdEncoding.DecodeString,
		base64.RawStdEncoding.DecodeString,
		base64.URLEncoding.DecodeString,
	}
	for _, decode := range candidates {
		if raw, err := decode(encoded); err == nil && len(raw) == 32 {
			return raw, nil
		}
	}
	return nil, errors.New("DATA_ENCRYPTION_KEY must decode to 32 bytes (hex or base64)")
}
