// Package fieldcrypt provides transparent at-rest encryption for database
// columns. Values encrypt on write and decrypt on read through the standard
// driver.Valuer / sql.Scanner interfaces, so callers and queries only ever
// see plaintext.
//
// Encryption is deliberately deterministic (AES-CBC with a key-derived IV):
// the same plaintext always produces the same ciphertext, which is what makes
// equality lookups on encrypted columns possible.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"database/sql/driver"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrKeyNotSet is returned when encryption is attempted before Init.
	ErrKeyNotSet = errors.New("fieldcrypt: encryption key is not set")
	// ErrCiphertextInvalid is returned when stored data cannot be decrypted.
	ErrCiphertextInvalid = errors.New("fieldcrypt: invalid ciphertext")
)

const (
	keyLen     = 32
	kdfRounds  = 4096
	saltString = "fieldcrypt.v1"
)

// engine holds the derived key material for the process.
// It is set once at startup via Init before any database traffic.
var engine *aesEngine //nolint:gochecknoglobals

type aesEngine struct {
	block cipher.Block
	iv    []byte
}

// Init derives the AES key from the configured secret and prepares the
// encryption engine. It must be called before any encrypted column is
// read or written.
func Init(secret string) error {
	if secret == "" {
		return ErrKeyNotSet
	}

	key := pbkdf2.Key([]byte(secret), []byte(saltString), kdfRounds, keyLen, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}

	// The IV is derived from the key so encryption stays deterministic,
	// a requirement for equality lookups on encrypted columns.
	ivDigest := sha256.Sum256(key)

	engine = &aesEngine{
		block: block,
		iv:    ivDigest[:aes.BlockSize],
	}

	return nil
}

// Encrypt encrypts a plaintext string to its base64 storage form.
func Encrypt(plaintext string) (string, error) {
	if engine == nil {
		return "", ErrKeyNotSet
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))

	cipher.NewCBCEncrypter(engine.block, engine.iv).CryptBlocks(out, padded)

	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt decrypts a base64 storage form back to its plaintext.
func Decrypt(ciphertext string) (string, error) {
	if engine == nil {
		return "", ErrKeyNotSet
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertextInvalid, err)
	}

	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", ErrCiphertextInvalid
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(engine.block, engine.iv).CryptBlocks(out, raw)

	unpadded, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(unpadded), nil
}

// EncryptedString is a string column encrypted at rest.
// Assign and compare it like a plain string; the database only ever
// sees the ciphertext.
type EncryptedString string

// Value implements driver.Valuer: encrypt on write.
func (s EncryptedString) Value() (driver.Value, error) {
	return Encrypt(string(s))
}

// Scan implements sql.Scanner: decrypt on read.
func (s *EncryptedString) Scan(value any) error {
	var stored string

	switch v := value.(type) {
	case string:
		stored = v
	case []byte:
		stored = string(v)
	case nil:
		*s = ""
		return nil
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrCiphertextInvalid, value)
	}

	plain, err := Decrypt(stored)
	if err != nil {
		return err
	}

	*s = EncryptedString(plain)

	return nil
}

// GormDataType reports the column type used for encrypted fields.
func (EncryptedString) GormDataType() string {
	return "string"
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+padLen)

	copy(out, data)

	for i := len(data); i < len(out); i++ {
		out[i] = byte(padLen)
	}

	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrCiphertextInvalid
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, ErrCiphertextInvalid
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrCiphertextInvalid
		}
	}

	return data[:len(data)-padLen], nil
}
