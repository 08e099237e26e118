package vault

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/foxseedlab/dove/internal/fingerprint"
)

const testSummary = "x86_64|linux|fedora|16777216|3|300.00|1234"

func newTestVault(t *testing.T, summary string) *Vault {
	t.Helper()
	return New(fingerprint.Static(summary), filepath.Join(t.TempDir(), "foxseedlab", "dove", "DO_NOT_SHARE.dat"))
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	v := newTestVault(t, testSummary)
	for _, plain := range []string{
		"Hello there 123 .-_?/",
		"",
		"MTIzNDU2Nzg5MDEyMzQ1Njc4.GaBcDe.abcdefghijklmnopqrstuvwxyz0123",
		"żółć 日本語",
	} {
		ciphertext, err := v.Encrypt(plain)
		if err != nil {
			t.Fatalf("encrypt failed: %v", err)
		}
		got, err := v.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("decrypt failed: %v", err)
		}
		if got != plain {
			t.Fatalf("round trip mismatch: got %q, want %q", got, plain)
		}
	}
}

func TestEncrypt_CiphertextEmbedsTag(t *testing.T) {
	v := newTestVault(t, testSummary)
	ciphertext, err := v.Encrypt("token")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if len(ciphertext) != len("token")+16 {
		t.Fatalf("expected plaintext plus 16-byte tag, got %d bytes", len(ciphertext))
	}
}

func TestDecrypt_FailsUnderDifferentFingerprint(t *testing.T) {
	ciphertext, err := newTestVault(t, testSummary).Encrypt("secret")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	other := newTestVault(t, "aarch64|darwin|macos|8388608|0|0.00|999")
	if _, err := other.Decrypt(ciphertext); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestDecrypt_FailsOnTamperedCiphertext(t *testing.T) {
	v := newTestVault(t, testSummary)
	ciphertext, err := v.Encrypt("secret")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	ciphertext[0] ^= 0xff
	if _, err := v.Decrypt(ciphertext); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestDecrypt_RejectsInvalidUTF8(t *testing.T) {
	v := newTestVault(t, testSummary)
	ciphertext, err := v.encryptBytes([]byte{0xff, 0xfe, 0xfd})
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if _, err := v.Decrypt(ciphertext); !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	v := newTestVault(t, testSummary)
	first, err := v.DeriveKey()
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	second, err := v.DeriveKey()
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	if first != second {
		t.Fatal("expected identical key material")
	}

	other, err := newTestVault(t, testSummary+"x").DeriveKey()
	if err != nil {
		t.Fatalf("derive failed: %v", err)
	}
	if bytes.Equal(first[:], other[:]) {
		t.Fatal("expected different fingerprints to yield different keys")
	}
}

func TestLoadToken_MissingFile(t *testing.T) {
	v := newTestVault(t, testSummary)
	if _, err := v.LoadToken(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSaveLoadDelete(t *testing.T) {
	v := newTestVault(t, testSummary)
	if err := v.SaveToken("my-token"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	raw, err := os.ReadFile(v.Path())
	if err != nil {
		t.Fatalf("expected token file: %v", err)
	}
	if bytes.Contains(raw, []byte("my-token")) {
		t.Fatal("token stored in plaintext")
	}

	got, err := v.LoadToken()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != "my-token" {
		t.Fatalf("unexpected token: %q", got)
	}

	if err := v.DeleteToken(); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := v.LoadToken(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := v.DeleteToken(); err != nil {
		t.Fatalf("expected deleting a missing token to succeed, got %v", err)
	}
}

func TestLoadToken_CorruptedFileIsAuthenticationError(t *testing.T) {
	v := newTestVault(t, testSummary)
	if err := os.MkdirAll(filepath.Dir(v.Path()), 0o700); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(v.Path(), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_, err := v.LoadToken()
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if errors.Is(err, ErrStorage) {
		t.Fatal("decryption failure must not be reported as storage failure")
	}
}

func TestSaveToken_StorageFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	v := New(fingerprint.Static(testSummary), filepath.Join(blocker, "DO_NOT_SHARE.dat"))

	err := v.SaveToken("token")
	if !errors.Is(err, ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if errors.Is(err, ErrAuthentication) {
		t.Fatal("storage failure must not be reported as authentication failure")
	}
}
