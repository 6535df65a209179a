package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Hashes are stored in the werkzeug layout: pbkdf2:sha256:<iterations>$<salt>$<hex digest>.
const (
	hashMethod        = "pbkdf2:sha256"
	saltChars         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	saltLength        = 16
	DefaultIterations = 600000
)

var (
	ErrInvalidPassword   = errors.New("invalid password")
	ErrUnsupportedHash   = errors.New("unsupported password hash format")
	ErrPasswordTooShort  = errors.New("password is too short")
	ErrInvalidIterations = errors.New("iterations must be positive")
)

// HashPassword derives a salted PBKDF2-HMAC-SHA256 hash of the password.
func HashPassword(password string, iterations int) (string, error) {
	if iterations <= 0 {
		return "", ErrInvalidIterations
	}

	salt, err := generateSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", hashMethod, iterations, salt, hex.EncodeToString(digest)), nil
}

// CheckPassword compares a password with its stored hash.
// Legacy bcrypt hashes are accepted as well.
func CheckPassword(password, hash string) error {
	if isBcryptHash(hash) {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrInvalidPassword
			}
			return err
		}
		return nil
	}

	iterations, salt, expected, err := parsePBKDF2Hash(hash)
	if err != nil {
		return err
	}

	digest := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(expected), sha256.New)
	if subtle.ConstantTimeCompare(digest, expected) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// NeedsRehash reports whether a stored hash should be replaced by a fresh
// PBKDF2 hash with the given iteration count.
func NeedsRehash(hash string, iterations int) bool {
	if isBcryptHash(hash) {
		return true
	}
	stored, _, _, err := parsePBKDF2Hash(hash)
	if err != nil {
		return false
	}
	return stored < iterations
}

func isBcryptHash(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

func parsePBKDF2Hash(hash string) (iterations int, salt string, digest []byte, err error) {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 {
		return 0, "", nil, ErrUnsupportedHash
	}

	method := parts[0]
	if !strings.HasPrefix(method, hashMethod) {
		return 0, "", nil, ErrUnsupportedHash
	}

	iterations = DefaultIterations
	if rest := strings.TrimPrefix(method, hashMethod); rest != "" {
		if !strings.HasPrefix(rest, ":") {
			return 0, "", nil, ErrUnsupportedHash
		}
		iterations, err = strconv.Atoi(rest[1:])
		if err != nil || iterations <= 0 {
			return 0, "", nil, ErrUnsupportedHash
		}
	}

	digest, err = hex.DecodeString(parts[2])
	if err != nil || len(digest) == 0 {
		return 0, "", nil, ErrUnsupportedHash
	}

	return iterations, parts[1], digest, nil
}

func generateSalt(length int) (string, error) {
	limit := big.NewInt(int64(len(saltChars)))
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		sb.WriteByte(saltChars[n.Int64()])
	}
	return sb.String(), nil
}

// GenerateSessionSecret creates a random 32-byte secret for CSRF token signing.
func GenerateSessionSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
