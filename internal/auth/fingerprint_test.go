package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintCodeDeterministic(t *testing.T) {
	a := FingerprintCode("123456", "salt")
	b := FingerprintCode("123456", "salt")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex sha256
}

func TestFingerprintCodeKnownValue(t *testing.T) {
	// sha256("123456:salt") — pins the digest layout the stored rows use.
	assert.Equal(t,
		"d74837dcb65f693cf95c74f3e50531596593dcd3bd8b85b38a7fb85d24c2923e",
		FingerprintCode("123456", "salt"))
}

func TestFingerprintCodeSensitivity(t *testing.T) {
	base := FingerprintCode("123456", "salt")
	assert.NotEqual(t, base, FingerprintCode("123457", "salt"), "different code must change the digest")
	assert.NotEqual(t, base, FingerprintCode("123456", "other"), "different salt must change the digest")
}

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"12 456", false},
		{" 123456", false}, // callers trim before validating
		{"", false},
		{"１２３４５６", false}, // full-width digits
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidCode(tt.code), "code %q", tt.code)
	}
}
