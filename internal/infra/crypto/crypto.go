// Package crypto provides passphrase-based encryption for stored discussions.
package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// SaltSize is the size of the Argon2id salt.
	SaltSize = 32
	// KeySize is the size of the derived XChaCha20-Poly1305 key.
	KeySize = chacha20poly1305.KeySize
	// Algorithm names the AEAD recorded alongside encrypted data.
	Algorithm = "xchacha20-poly1305"
	// KDF names the key derivation function recorded alongside encrypted data.
	KDF = "argon2id"
)

var (
	// ErrEmptyPassphrase is returned when no passphrase is given.
	ErrEmptyPassphrase = errors.New("empty passphrase")
	// ErrInvalidSalt is returned when the salt is malformed.
	ErrInvalidSalt = errors.New("invalid salt")
	// ErrDecryptionFailed is returned when decryption fails.
	ErrDecryptionFailed = errors.New("decryption failed: wrong passphrase or corrupted data")
	// ErrCiphertextTooShort is returned when the ciphertext is too short.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// KDFParams holds Argon2id parameters.
type KDFParams struct {
	Salt    string `yaml:"salt"` // base64-encoded
	Time    uint32 `yaml:"time"`
	Memory  uint32 `yaml:"memory"` // KiB
	Threads uint8  `yaml:"threads"`
}

// DefaultKDFParams returns Argon2id parameters for a fresh random salt.
func DefaultKDFParams() (KDFParams, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return KDFParams{}, fmt.Errorf("generate salt: %w", err)
	}
	return KDFParams{
		Time:    3,
		Memory:  64 * 1024,
		Threads: 4,
		Salt:    base64.StdEncoding.EncodeToString(salt),
	}, nil
}

// Encryptor seals data with XChaCha20-Poly1305 under a passphrase-derived key.
// Identical plaintexts map to identical ciphertexts while the nonce cache
// lives, so re-saving unchanged data produces identical blobs.
type Encryptor struct {
	aead      cipher.AEAD
	cache     map[string][]byte // plaintext hash -> nonce + ciphertext
	cachePath string
	mu        sync.RWMutex
}

// NewEncryptor derives a key from passphrase and params.
// cachePath is the directory holding the nonce cache (empty = memory only).
func NewEncryptor(passphrase []byte, params KDFParams, cachePath string) (*Encryptor, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	salt, err := base64.StdEncoding.DecodeString(params.Salt)
	if err != nil || len(salt) == 0 {
		return nil, ErrInvalidSalt
	}

	key := argon2.IDKey(passphrase, salt, params.Time, params.Memory, params.Threads, KeySize)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	e := &Encryptor{
		aead:      aead,
		cachePath: cachePath,
		cache:     make(map[string][]byte),
	}
	if cachePath != "" {
		_ = e.loadCache()
	}
	return e, nil
}

// Encrypt returns nonce + ciphertext + tag.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	hash := sha256.Sum256(plaintext)
	hashKey := hex.EncodeToString(hash[:])

	e.mu.RLock()
	if cached, ok := e.cache[hashKey]; ok {
		e.mu.RUnlock()
		return cached, nil
	}
	e.mu.RUnlock()

	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plaintext)+e.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	sealed := e.aead.Seal(nonce, nonce, plaintext, nil)

	e.mu.Lock()
	e.cache[hashKey] = sealed
	e.mu.Unlock()

	if e.cachePath != "" {
		_ = e.SaveCache()
	}
	return sealed, nil
}

// Decrypt opens data produced by Encrypt.
func (e *Encryptor) Decrypt(sealed []byte) ([]byte, error) {
	n := e.aead.NonceSize()
	if len(sealed) < n+e.aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	plaintext, err := e.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func (e *Encryptor) cacheFilePath() string {
	return filepath.Join(e.cachePath, "nonce-cache")
}

// loadCache reads entries of hashKey (64 hex) + length (4 bytes) + sealed data.
func (e *Encryptor) loadCache() error {
	data, err := os.ReadFile(e.cacheFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	offset := 0
	for offset+64+4 <= len(data) {
		hashKey := string(data[offset : offset+64])
		offset += 64
		length := int(data[offset])<<24 | int(data[offset+1])<<16 | int(data[offset+2])<<8 | int(data[offset+3])
		offset += 4
		if offset+length > len(data) {
			break
		}
		sealed := make([]byte, length)
		copy(sealed, data[offset:offset+length])
		offset += length
		e.cache[hashKey] = sealed
	}
	return nil
}

// SaveCache writes the nonce cache to disk.
func (e *Encryptor) SaveCache() error {
	if err := os.MkdirAll(e.cachePath, 0o700); err != nil {
		return err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	data := make([]byte, 0, len(e.cache)*(64+4+256))
	for hashKey, sealed := range e.cache {
		data = append(data, hashKey...)
		length := len(sealed)
		data = append(data, byte(length>>24), byte(length>>16), byte(length>>8), byte(length))
		data = append(data, sealed...)
	}
	return os.WriteFile(e.cacheFilePath(), data, 0o600)
}

// ClearCache clears the in-memory and on-disk cache.
func (e *Encryptor) ClearCache() error {
	e.mu.Lock()
	e.cache = make(map[string][]byte)
	e.mu.Unlock()

	if e.cachePath != "" {
		if err := os.Remove(e.cacheFilePath()); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
