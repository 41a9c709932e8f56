// Package secretbox seals and opens realm client secrets and TOTP seeds at
// rest using AES-256-GCM with an HKDF-derived compound key.
//
// The compound key is derived from a process-wide application key and a
// per-realm key using HKDF-SHA-256, so that compromising one realm's key
// never exposes another realm's secrets. Sealed values carry a one-byte
// version prefix so that callers migrating away from plaintext storage can
// distinguish sealed ciphertext from legacy plaintext without a schema
// migration.
package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size for both the application and realm keys.
	KeySize = 32 // 256 bits for AES-256

	// hkdfInfo provides domain separation for the key derivation step.
	hkdfInfo = "authcore-secretbox-v1"

	// versionSealed marks the first byte of a sealed (base64-decoded) value.
	versionSealed byte = 0x01
)

var (
	ErrInvalidAppKey    = errors.New("secretbox: invalid app key: must be 32 bytes")
	ErrInvalidRealmKey  = errors.New("secretbox: invalid realm key: must be 32 bytes")
	ErrSealFailed       = errors.New("secretbox: seal failed")
	ErrOpenFailed       = errors.New("secretbox: open failed")
	ErrMalformedPayload = errors.New("secretbox: malformed sealed payload")
	ErrKeyDerivation    = errors.New("secretbox: key derivation failed")
)

// ValidateKeys checks that both keys are the correct length.
func ValidateKeys(appKey, realmKey []byte) error {
	if len(appKey) != KeySize {
		return ErrInvalidAppKey
	}
	if len(realmKey) != KeySize {
		return ErrInvalidRealmKey
	}
	return nil
}

// GenerateKey creates a new random 32-byte key suitable for use as an app or
// realm key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

func deriveKey(appKey, realmKey []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, appKey, realmKey, []byte(hkdfInfo))
	derived := make([]byte, KeySize)
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, errors.Join(ErrKeyDerivation, err)
	}
	return derived, nil
}

// Seal encrypts plaintext with the compound key derived from appKey and
// realmKey and returns a base64-encoded, version-prefixed payload.
func Seal(appKey, realmKey []byte, plaintext string) (string, error) {
	if err := ValidateKeys(appKey, realmKey); err != nil {
		return "", err
	}

	key, err := deriveKey(appKey, realmKey)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Join(ErrSealFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Join(ErrSealFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Join(ErrSealFailed, err)
	}

	buf := make([]byte, 0, 1+len(nonce)+len(plaintext)+gcm.Overhead())
	buf = append(buf, versionSealed)
	sealed := gcm.Seal(append(buf, nonce...), nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a payload produced by Seal. Callers migrating legacy
// plaintext secrets should check IsSealed before calling Open, falling back
// to the raw value when the stored secret predates sealing.
func Open(appKey, realmKey []byte, payload string) (string, error) {
	if err := ValidateKeys(appKey, realmKey); err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", errors.Join(ErrMalformedPayload, err)
	}
	if len(raw) < 1 || raw[0] != versionSealed {
		return "", ErrMalformedPayload
	}
	raw = raw[1:]

	key, err := deriveKey(appKey, realmKey)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", errors.Join(ErrOpenFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Join(ErrOpenFailed, err)
	}

	nonceSize := gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrMalformedPayload
	}
	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Join(ErrOpenFailed, err)
	}

	return string(plaintext), nil
}

// IsSealed reports whether payload looks like a value produced by Seal, as
// opposed to legacy plaintext carried over from before sealing was enabled.
func IsSealed(payload string) bool {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return false
	}
	return len(raw) > 0 && raw[0] == versionSealed
}
