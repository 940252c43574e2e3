package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneNumber(t *testing.T) {
	testCases := []struct {
		raw      string
		expected string
	}{
		{raw: "+15005550006", expected: "+15005550006"},
		{raw: "15005550006", expected: "+15005550006"},
		{raw: "+1 (500) 555-0006", expected: "+15005550006"},
		{raw: "  +1.500.555.0006  ", expected: "+15005550006"},
	}
	for _, tc := range testCases {
		normalized, err := NormalizePhoneNumber(tc.raw)
		require.NoError(t, err, "raw %q", tc.raw)
		assert.Equal(t, tc.expected, normalized, "raw %q", tc.raw)
	}
}

func TestNormalizePhoneNumber_Rejects(t *testing.T) {
	for _, raw := range []string{
		"",
		"   ",
		"+",
		"+1500555000a",
		"whatsapp:+15005550006",
		"+1234567890123456", // 16 digits
	} {
		_, err := NormalizePhoneNumber(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}
