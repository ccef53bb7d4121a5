package cryptox

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// CodeDigits is the length of emailed one-time codes.
const CodeDigits = 6

var ErrCodeMismatch = errors.New("code does not match")

// GenerateNumericCode returns a uniformly random, zero-padded decimal code.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("code length out of range: %d", digits)
	}

	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}

// HashCode hashes a one-time code with bcrypt.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}
	return string(hash), nil
}

// VerifyCode compares a submitted code with its bcrypt hash. Surrounding
// whitespace in the submission is ignored.
func VerifyCode(code, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(code)))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrCodeMismatch
	}
	return err
}
