package base62_test

import (
	"math"
	"strings"
	"testing"

	"github.com/serroba/shorturl/internal/base62"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{9, "9"},
		{10, "A"},
		{35, "Z"},
		{36, "a"},
		{61, "z"},
		{62, "10"},
		{63, "11"},
		{3843, "zz"},
		{3844, "100"},
		{math.MaxUint64, "LygHa16AHYF"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, base62.Encode(tt.n))
		})
	}
}

func TestEncode_UsesOnlyAlphabet(t *testing.T) {
	for n := uint64(1); n < 20000; n += 7 {
		code := base62.Encode(n)

		for _, r := range code {
			assert.True(t, strings.ContainsRune(base62.Alphabet, r), "unexpected symbol %q in %q", r, code)
		}

		assert.NotEqual(t, byte('0'), code[0], "code %q has a leading zero", code)
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	values := []uint64{1, 2, 61, 62, 63, 1000, 238327, 238328, 1 << 32, 1<<63 + 12345, math.MaxUint64}

	for n := uint64(1); n < 5000; n++ {
		values = append(values, n)
	}

	for _, n := range values {
		got, err := base62.Decode(base62.Encode(n))

		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Run("rejects empty input", func(t *testing.T) {
		_, err := base62.Decode("")

		assert.ErrorIs(t, err, base62.ErrEmpty)
	})

	t.Run("rejects symbols outside the alphabet", func(t *testing.T) {
		for _, s := range []string{"abc-1", "favicon.ico", "a b", "ü"} {
			_, err := base62.Decode(s)

			assert.ErrorIs(t, err, base62.ErrInvalidChar, s)
		}
	})

	t.Run("rejects leading zeros", func(t *testing.T) {
		_, err := base62.Decode("01")

		assert.ErrorIs(t, err, base62.ErrLeadingZero)
	})

	t.Run("accepts a lone zero", func(t *testing.T) {
		n, err := base62.Decode("0")

		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("rejects overflow", func(t *testing.T) {
		_, err := base62.Decode("LygHa16AHYG")

		assert.ErrorIs(t, err, base62.ErrValueTooLong)
	})
}

func TestValid(t *testing.T) {
	assert.True(t, base62.Valid("1"))
	assert.True(t, base62.Valid("notThere"))
	assert.False(t, base62.Valid("doesNotExist"), "twelve symbols overflow uint64")
	assert.False(t, base62.Valid(""))
	assert.False(t, base62.Valid("robots.txt"))
	assert.False(t, base62.Valid("007"))
}
