//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	t.Run("zero", func(t *testing.T) {
		got, err := IntToUint32(0)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), got)
	})

	t.Run("max", func(t *testing.T) {
		got, err := IntToUint32(math.MaxUint32)
		require.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), got)
	})

	t.Run("negative", func(t *testing.T) {
		_, err := IntToUint32(-1)
		assert.ErrorIs(t, err, ErrOverflow)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := IntToUint32(math.MaxUint32 + 1)
		assert.ErrorIs(t, err, ErrOverflow)
	})
}

func TestUint32ToInt(t *testing.T) {
	got, err := Uint32ToInt(math.MaxUint32)
	require.NoError(t, err)
	assert.Equal(t, math.MaxUint32, got)
}

func TestInt64ToInt(t *testing.T) {
	got, err := Int64ToInt(-5)
	require.NoError(t, err)
	assert.Equal(t, -5, got)

	got, err = Int64ToInt(math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, got)
}

func TestUint64ToInt(t *testing.T) {
	got, err := Uint64ToInt(42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Uint64ToInt(math.MaxUint64)
	assert.ErrorIs(t, err, ErrOverflow)
}
