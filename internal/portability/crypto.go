package portability

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/zalando/go-keyring"
	"golang.org/x/crypto/scrypt"

	"github.com/julianstephens/dopalog/internal/constants"
)

// sealMagic prefixes encrypted snapshots so plaintext imports can be told
// apart from encrypted ones.
const sealMagic = "DPLGSEAL1"

const (
	saltSize  = 16
	scryptN   = 1 << 15
	scryptR   = 8
	scryptP   = 1
	keyLength = 32
)

// IsSealed reports whether data looks like an encrypted snapshot.
func IsSealed(data []byte) bool {
	return len(data) > len(sealMagic) && string(data[:len(sealMagic)]) == sealMagic
}

// Seal encrypts a serialized snapshot with a passphrase-derived key
// (scrypt + AES-GCM). Layout: magic | salt | nonce | ciphertext.
func Seal(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := append([]byte(sealMagic), salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Open decrypts a sealed snapshot produced by Seal.
func Open(data []byte, passphrase string) ([]byte, error) {
	if !IsSealed(data) {
		return nil, fmt.Errorf("data is not an encrypted snapshot")
	}
	data = data[len(sealMagic):]
	if len(data) < saltSize {
		return nil, fmt.Errorf("encrypted snapshot truncated")
	}
	salt, data := data[:saltSize], data[saltSize:]

	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, fmt.Errorf("encrypted snapshot truncated")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt snapshot (wrong passphrase?): %w", err)
	}
	return plaintext, nil
}

// ExportPassphrase reads the export-encryption passphrase from the OS
// keyring.
func ExportPassphrase() (string, error) {
	secret, err := keyring.Get(constants.KeyringService, constants.KeyringExportKeyUser)
	if err != nil {
		return "", fmt.Errorf("failed to read export passphrase from keyring: %w", err)
	}
	return secret, nil
}

// SetExportPassphrase stores the export-encryption passphrase in the OS
// keyring.
func SetExportPassphrase(passphrase string) error {
	if err := keyring.Set(constants.KeyringService, constants.KeyringExportKeyUser, passphrase); err != nil {
		return fmt.Errorf("failed to store export passphrase in keyring: %w", err)
	}
	return nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
