package api

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealedCookiePrefix = "p2."

var errSealedCookie = errors.New("sealed cookie is invalid")

// cookieSealer encrypts cookie payloads with XChaCha20-Poly1305. Each
// purpose gets its own key derived from the secret, so a value sealed
// for one cookie cannot be replayed into another.
type cookieSealer struct {
	secret []byte
}

func newCookieSealer(secret []byte) (*cookieSealer, error) {
	if len(secret) < 16 {
		return nil, errors.New("cookie secret must be at least 16 bytes")
	}
	return &cookieSealer{secret: append([]byte(nil), secret...)}, nil
}

func (s *cookieSealer) keyFor(purpose string) ([]byte, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return nil, errors.New("cookie purpose is required")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	reader := hkdf.New(sha256.New, s.secret, nil, []byte("pitlane cookie "+purpose))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive cookie key: %w", err)
	}
	return key, nil
}

func (s *cookieSealer) sealJSON(purpose string, value any) (string, error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode cookie payload: %w", err)
	}
	key, err := s.keyFor(purpose)
	if err != nil {
		return "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("init cookie cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cookie nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return sealedCookiePrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// openJSON reverses sealJSON. Any tampering, a foreign purpose or an old
// format all come back as errSealedCookie.
func (s *cookieSealer) openJSON(purpose string, raw string, dest any) error {
	encoded, ok := strings.CutPrefix(strings.TrimSpace(raw), sealedCookiePrefix)
	if !ok || encoded == "" {
		return errSealedCookie
	}
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(sealed) <= chacha20poly1305.NonceSizeX {
		return errSealedCookie
	}

	key, err := s.keyFor(purpose)
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return fmt.Errorf("init cookie cipher: %w", err)
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return errSealedCookie
	}
	if err := json.Unmarshal(plaintext, dest); err != nil {
		return errSealedCookie
	}
	return nil
}
