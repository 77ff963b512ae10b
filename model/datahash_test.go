package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataHash(t *testing.T) {
	hexDigits := strings.Repeat("ab", DataHashSize)

	for _, in := range []string{hexDigits, "0x" + hexDigits, "0X" + strings.ToUpper(hexDigits)} {
		h, err := ParseDataHash(in)
		require.NoError(t, err, in)
		assert.Equal(t, "0x"+hexDigits, h.String())
		assert.False(t, h.IsZero())
	}

	for _, bad := range []string{"", "0x", "0x1234", hexDigits + "00", strings.Repeat("zz", DataHashSize)} {
		_, err := ParseDataHash(bad)
		assert.Error(t, err, bad)
	}
}

func TestZeroDataHash(t *testing.T) {
	var h DataHash
	assert.True(t, h.IsZero())
	assert.Equal(t, "0x"+strings.Repeat("0", 64), h.String())
}
