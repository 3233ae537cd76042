package employee

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	accessKeyLength   = 12
	accessKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
)

// generateAccessKey returns a random alphanumeric key and its bcrypt hash.
// Look-alike characters (0/O, 1/l/I) are left out.
func generateAccessKey() (plain string, hash string, err error) {
	size := big.NewInt(int64(len(accessKeyAlphabet)))
	key := make([]byte, accessKeyLength)
	for i := range key {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", "", fmt.Errorf("failed to generate access key: %w", err)
		}
		key[i] = accessKeyAlphabet[n.Int64()]
	}

	hashed, err := bcrypt.GenerateFromPassword(key, bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash access key: %w", err)
	}
	return string(key), string(hashed), nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func formatEmployeeCode(n int) string {
	return fmt.Sprintf("EMP%03d", n)
}
