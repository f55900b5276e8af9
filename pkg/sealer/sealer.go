// Package sealer mints and opens the opaque session credentials issued at
// booking initiation. A credential seals the booking's tracking code together
// with a random nonce under AES-GCM, so it is bound to exactly one booking
// and cannot be forged or reused across bookings.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

type Sealer struct {
	key []byte
}

// New expects a base64 std-encoded 32-byte key.
func New(encodedKey string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode seal key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("seal key must be 32 bytes, got %d", len(key))
	}
	return &Sealer{key: key}, nil
}

// Seal produces an opaque URL-safe token binding trackingCode to nonce.
func (s *Sealer) Seal(trackingCode, nonce string) (string, error) {
	plaintext := []byte(trackingCode + ":" + nonce)

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	ct := aesgcm.Seal(iv, iv, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// Open recovers the tracking code and nonce from a sealed token.
func (s *Sealer) Open(token string) (string, string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("malformed token: %w", err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", err
	}

	if len(data) < aesgcm.NonceSize() {
		return "", "", fmt.Errorf("token too short")
	}

	iv := data[:aesgcm.NonceSize()]
	ciphertext := data[aesgcm.NonceSize():]

	pt, err := aesgcm.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to open token: %w", err)
	}

	parts := strings.SplitN(string(pt), ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid token format")
	}

	return parts[0], parts[1], nil
}
