// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

// GenerateOrderID produces a human-facing order reference like ORD-48213.
func GenerateOrderID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%d", n.Int64()+10000), nil
}

// GeneratePaymentRef produces an opaque payment reference in the sandbox
// provider's format.
func GeneratePaymentRef() (string, error) {
	randomPart, err := GenerateRandomString(14)
	if err != nil {
		return "", err
	}
	return "pay_" + randomPart, nil
}
