// Package cryptox holds the field encryption and credential hashing
// primitives used by the server: AES-256-CBC envelopes for PII columns,
// a keyed search digest for equality lookups, and bcrypt password hashes.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/piiguard/internal/common"
	"golang.org/x/crypto/scrypt"
)

const (
	envelopeSeparator = ":"

	keySize = 32

	// scrypt parameters and the fixed salt the envelope key is derived with.
	// Changing any of them makes every stored envelope undecryptable.
	scryptN    = 16384
	scryptR    = 8
	scryptP    = 1
	scryptSalt = "salt"
)

// Cipher encrypts and decrypts individual text fields and computes the
// deterministic digest used to search encrypted columns.
//
// A Cipher is immutable after construction and safe for concurrent use.
type Cipher struct {
	secret string
	key    []byte
}

// DeriveKey stretches secret into a 32-byte AES-256 key with scrypt.
func DeriveKey(secret string) ([]byte, error) {
	return scrypt.Key([]byte(secret), []byte(scryptSalt), scryptN, scryptR, scryptP, keySize)
}

// NewCipher derives the envelope key from secret. The derivation is slow on
// purpose, so it happens once here rather than on every call.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("crypto secret: %w", common.ErrMissingSecret)
	}

	key, err := DeriveKey(secret)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	return &Cipher{secret: secret, key: key}, nil
}

// Encrypt seals plaintext into an envelope of the form
//
//	<32 hex chars of IV>:<hex ciphertext>
//
// A fresh random IV is generated for every call, so encrypting the same value
// twice yields different envelopes. Empty input is returned unchanged.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := common.GenerateRandByteArray(aes.BlockSize)

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + envelopeSeparator + hex.EncodeToString(ciphertext), nil
}

// Decrypt opens an envelope produced by Encrypt. Empty input is returned
// unchanged.
//
// Returns common.ErrMalformedEnvelope when the separator or either half is
// missing, and common.ErrDecryptionFailure when the halves are not valid hex,
// have the wrong length, or fail padding checks (wrong key, truncated or
// tampered data).
func (c *Cipher) Decrypt(envelope string) (string, error) {
	if envelope == "" {
		return envelope, nil
	}

	ivHex, cipherHex, found := strings.Cut(envelope, envelopeSeparator)
	if !found || ivHex == "" || cipherHex == "" {
		return "", common.ErrMalformedEnvelope
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: bad iv", common.ErrDecryptionFailure)
	}

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext encoding", common.ErrDecryptionFailure)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a multiple of the block size", common.ErrDecryptionFailure)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// HashForSearch returns hex(sha256(plaintext + secret)). It is a lookup key
// for encrypted columns and provides no confidentiality of its own.
func (c *Cipher) HashForSearch(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext + c.secret))
	return hex.EncodeToString(sum[:])
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: bad padding", common.ErrDecryptionFailure)
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("%w: bad padding", common.ErrDecryptionFailure)
	}

	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", common.ErrDecryptionFailure)
		}
	}

	return data[:len(data)-n], nil
}
