package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateNumericCode(22)
		require.NoError(t, err)
		assert.True(t, IsNumericCode(code, 22), "code %q should be 22 digits", code)
		seen[code] = true
	}
	assert.Len(t, seen, 200, "codes should not repeat in a small sample")

	_, err := GenerateNumericCode(0)
	assert.Error(t, err)
}

func TestIsNumericCode(t *testing.T) {
	assert.True(t, IsNumericCode("0123", 4))
	assert.False(t, IsNumericCode("0123", 5))
	assert.False(t, IsNumericCode("01a3", 4))
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "1000.00", FormatMoney(decimal.NewFromInt(1000)))
	assert.True(t, HasMoneyPrecision(decimal.RequireFromString("10.25")))
	assert.False(t, HasMoneyPrecision(decimal.RequireFromString("10.255")))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("ExponentPushToken[abc]")
	assert.Len(t, a, 12)
	assert.Equal(t, a, Fingerprint("ExponentPushToken[abc]"))
	assert.NotEqual(t, a, Fingerprint("ExponentPushToken[abd]"))
}

func TestIsValidAlias(t *testing.T) {
	valid := []string{"ana", "Ana.Perez", " bob_99 ", "x-y"}
	invalid := []string{"", "ab", "-ana", "ana perez", "ñandú", "a23456789012345678901234567890123"}
	for _, a := range valid {
		assert.True(t, IsValidAlias(a), "expected %q to be valid", a)
	}
	for _, a := range invalid {
		assert.False(t, IsValidAlias(a), "expected %q to be invalid", a)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@example.com"))
	assert.True(t, IsValidEmail("  B@b.com "))
	assert.False(t, IsValidEmail("   "))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("ana @example.com"))
}
