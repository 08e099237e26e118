// Package vault keeps the session token encrypted at rest under a key bound to
// the current machine.
//
// The key is derived from the host fingerprint, so a copied token file cannot
// be decrypted elsewhere and no passphrase is needed. This protects against
// casual file copying only; anyone able to run code as the user can derive the
// same key.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/foxseedlab/dove/internal/fingerprint"
	"golang.org/x/crypto/hkdf"
)

const KeySize = 32

const keyStreamInfo = "dove token vault v1"

var (
	ErrNotFound       = errors.New("no saved token")
	ErrAuthentication = errors.New("token could not be authenticated")
	ErrStorage        = errors.New("token storage failed")
)

type Vault struct {
	fp   fingerprint.Provider
	path string
}

func New(fp fingerprint.Provider, path string) *Vault {
	return &Vault{fp: fp, path: path}
}

func (v *Vault) Path() string {
	return v.path
}

// DeriveKey hashes the fingerprint and uses the digest to seed a
// deterministic key stream. Swapping the stream does not change the key size.
func (v *Vault) DeriveKey() ([KeySize]byte, error) {
	var key [KeySize]byte
	digest := sha256.Sum256([]byte(v.fp.Summary()))
	stream := hkdf.Expand(sha256.New, digest[:], []byte(keyStreamInfo))
	if _, err := io.ReadFull(stream, key[:]); err != nil {
		return key, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func (v *Vault) aead() (cipher.AEAD, error) {
	key, err := v.DeriveKey()
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// fixedNonce is reused for every encryption. This is only sound because one
// key ever protects exactly one plaintext: the token. Storing more than one
// secret requires a random nonce stored next to each ciphertext.
func fixedNonce(a cipher.AEAD) []byte {
	return make([]byte, a.NonceSize())
}

func (v *Vault) Encrypt(plaintext string) ([]byte, error) {
	return v.encryptBytes([]byte(plaintext))
}

func (v *Vault) encryptBytes(plaintext []byte) ([]byte, error) {
	a, err := v.aead()
	if err != nil {
		return nil, err
	}
	return a.Seal(nil, fixedNonce(a), plaintext, nil), nil
}

func (v *Vault) Decrypt(ciphertext []byte) (string, error) {
	a, err := v.aead()
	if err != nil {
		return "", err
	}
	plain, err := a.Open(nil, fixedNonce(a), ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: decrypted token is not valid text", ErrAuthentication)
	}
	return string(plain), nil
}

func (v *Vault) SaveToken(token string) error {
	ciphertext, err := v.Encrypt(token)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := os.WriteFile(v.path, ciphertext, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

func (v *Vault) LoadToken() (string, error) {
	ciphertext, err := os.ReadFile(v.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return v.Decrypt(ciphertext)
}

func (v *Vault) DeleteToken() error {
	if err := os.Remove(v.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}
