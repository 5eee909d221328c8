package entities

import (
	"crypto/rand"
	"math/big"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePassword returns a random alphanumeric string read from crypto/rand.
func GeneratePassword(length int) (string, error) {
	limit := big.NewInt(int64(len(passwordAlphabet)))
	password := make([]byte, length)

	for i := range password {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		password[i] = passwordAlphabet[n.Int64()]
	}

	return string(password), nil
}
