// Package crypto provides the symmetric codec used to protect sensitive
// verification fields at rest, plus a one-way digest for equality checks.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	apperrors "veritier/internal/errors"

	"golang.org/x/crypto/scrypt"
)

// Ciphertext blob layout, base64-encoded as one string:
//
//	salt(64) || iv(16) || authTag(16) || ciphertext(var)
//
// The per-call salt is random and carried for format compatibility; the key
// itself is derived once from the configured secret and deployment salt.
const (
	saltLen = 64
	ivLen   = 16
	tagLen  = 16

	headerLen = saltLen + ivLen + tagLen
)

// scrypt cost parameters, interactive-grade.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Codec encrypts and decrypts individual string fields with AES-256-GCM.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives a 256-bit key from the configured secret and deployment
// salt. The same inputs always yield the same key, so blobs written by one
// process decrypt in any other with the same configuration.
func NewCodec(secret, kdfSalt string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("crypto: secret must not be empty")
	}
	if kdfSalt == "" {
		return nil, fmt.Errorf("crypto: kdf salt must not be empty")
	}

	key, err := scrypt.Key([]byte(secret), []byte(kdfSalt), scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("crypto: key derivation failed: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivLen)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encrypt seals plaintext into a fresh blob. Encrypting the same plaintext
// twice produces different blobs. The empty string passes through untouched
// so absent fields stay absent.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	blob := make([]byte, headerLen, headerLen+len(plaintext))
	if _, err := rand.Read(blob[:saltLen+ivLen]); err != nil {
		return "", fmt.Errorf("crypto: %w", err)
	}
	salt := blob[:saltLen]
	iv := blob[saltLen : saltLen+ivLen]

	// Seal returns ciphertext||tag; the blob wants tag before ciphertext.
	// The salt rides along as additional data so no byte of the blob can
	// be flipped without failing authentication.
	sealed := c.aead.Seal(nil, iv, []byte(plaintext), salt)
	ct, tag := sealed[:len(sealed)-tagLen], sealed[len(sealed)-tagLen:]
	copy(blob[saltLen+ivLen:], tag)
	blob = append(blob, ct...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens a blob produced by Encrypt. A truncated or tampered blob,
// or one sealed under a different key, fails authentication and returns an
// error; garbage is never returned. The empty string passes through.
func (c *Codec) Decrypt(blob string) (string, error) {
	if blob == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrCiphertextMalformed, err)
	}
	if len(raw) <= headerLen {
		return "", apperrors.ErrCiphertextMalformed
	}

	salt := raw[:saltLen]
	iv := raw[saltLen : saltLen+ivLen]
	tag := raw[saltLen+ivLen : headerLen]
	ct := raw[headerLen:]

	sealed := make([]byte, 0, len(ct)+tagLen)
	sealed = append(sealed, ct...)
	sealed = append(sealed, tag...)

	plaintext, err := c.aead.Open(nil, iv, sealed, salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}

// Hash returns a hex digest of text for equality checks without
// decryption. Deterministic: the same text always hashes the same.
func (c *Codec) Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
