package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// GenerateOTP creates a numeric OTP of the given length. Digits come from
// crypto/rand so codes cannot be predicted from issuance time or record IDs.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits)
}
