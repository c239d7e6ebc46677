package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhone(t *testing.T) {
	t.Run("parses plain mobile digits", func(t *testing.T) {
		phone, err := NewPhone("11987654321")
		require.NoError(t, err)
		assert.Equal(t, "11987654321", phone.Digits())
		assert.True(t, phone.IsMobile())
		assert.Equal(t, "11", phone.DDD())
	})

	t.Run("parses masked input", func(t *testing.T) {
		phone, err := NewPhone("(11) 98765-4321")
		require.NoError(t, err)
		assert.Equal(t, "11987654321", phone.Digits())
	})

	t.Run("strips the country code", func(t *testing.T) {
		for _, input := range []string{"+55 11 98765-4321", "5511987654321", "+55 (11) 3456-7890"} {
			phone, err := NewPhone(input)
			require.NoError(t, err, "input %q", input)
			assert.Equal(t, "11", phone.DDD())
		}
	})

	t.Run("accepts landlines", func(t *testing.T) {
		phone, err := NewPhone("1134567890")
		require.NoError(t, err)
		assert.False(t, phone.IsMobile())
		assert.Equal(t, "(11) 3456-7890", phone.Masked())
	})

	t.Run("rejects wrong digit counts", func(t *testing.T) {
		for _, input := range []string{"", "1198765", "119876543210"} {
			_, err := NewPhone(input)
			require.Error(t, err, "input %q", input)
			assert.ErrorIs(t, err, ErrInvalidPhone)
		}
	})

	t.Run("rejects DDD starting with zero", func(t *testing.T) {
		_, err := NewPhone("0198765432")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPhone)
	})
}

func TestPhoneFormats(t *testing.T) {
	phone, err := NewPhone("11987654321")
	require.NoError(t, err)

	t.Run("masks mobile numbers", func(t *testing.T) {
		assert.Equal(t, "(11) 98765-4321", phone.Masked())
	})

	t.Run("formats E164", func(t *testing.T) {
		assert.Equal(t, "+5511987654321", phone.E164())
	})

	t.Run("returns tracking suffix", func(t *testing.T) {
		assert.Equal(t, "4321", phone.Suffix(4))
		assert.Equal(t, "11987654321", phone.Suffix(0))
	})

	t.Run("zero value", func(t *testing.T) {
		var zero Phone
		assert.True(t, zero.IsZero())
		assert.Empty(t, zero.E164())
	})
}
