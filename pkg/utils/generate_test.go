package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPLength(t *testing.T) {
	for _, length := range []int{4, 6, 8} {
		otp := GenerateOTP(length)
		assert.Len(t, otp, length)
	}
}

func TestGenerateOTPDefaultsToSixDigits(t *testing.T) {
	assert.Len(t, GenerateOTP(0), 6)
	assert.Len(t, GenerateOTP(-3), 6)
}

func TestGenerateOTPDigitsOnly(t *testing.T) {
	otp := GenerateOTP(6)
	for _, c := range otp {
		require.True(t, c >= '0' && c <= '9', "unexpected character %q in OTP", c)
	}
}

func TestGenerateOTPVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateOTP(6)] = true
	}
	// 50 identical six-digit draws would mean the random source is broken.
	assert.Greater(t, len(seen), 1)
}
