package app

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/ratemymusic/rmm-api/internal/constants"
)

const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Hasher hashes new passwords and checks candidates against stored hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(encoded, candidate string) bool
}

// PasswordHasher produces pbkdf2_sha256$<iterations>$<salt>$<base64 key>
// encodings, the layout Django stores in auth_user.password.
type PasswordHasher struct {
	Iterations int
}

func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations <= 0 {
		iterations = constants.DefaultPasswordIterations
	}
	return &PasswordHasher{Iterations: iterations}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	salt, err := randomString(constants.PasswordSaltChars)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), h.Iterations, sha256.Size, sha256.New)
	encoded := base64.StdEncoding.EncodeToString(key)
	return fmt.Sprintf("%s$%d$%s$%s", constants.PasswordAlgorithm, h.Iterations, salt, encoded), nil
}

// Verify reports whether candidate matches encoded. Malformed or unusable
// hashes never match.
func (h *PasswordHasher) Verify(encoded, candidate string) bool {
	parts := strings.SplitN(encoded, "$", 4)
	if len(parts) != 4 || parts[0] != constants.PasswordAlgorithm {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	stored, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(stored) == 0 {
		return false
	}
	derived := pbkdf2.Key([]byte(candidate), []byte(parts[2]), iterations, len(stored), sha256.New)
	return subtle.ConstantTimeCompare(derived, stored) == 1
}

// newTokenKey returns a 40 character hex API key.
func newTokenKey() (string, error) {
	buf := make([]byte, constants.TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func randomString(n int) (string, error) {
	limit := big.NewInt(int64(len(saltAlphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
