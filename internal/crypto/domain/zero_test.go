package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("zero non-empty slice", func(t *testing.T) {
		b := []byte{1, 2, 3, 4, 5}
		Zero(b)
		for _, v := range b {
			assert.Equal(t, byte(0), v)
		}
	})

	t.Run("zero empty slice", func(t *testing.T) {
		b := []byte{}
		Zero(b)
		assert.Equal(t, 0, len(b))
	})

	t.Run("zero nil slice", func(t *testing.T) {
		var b []byte
		assert.NotPanics(t, func() { Zero(b) })
	})

	t.Run("zero large slice", func(t *testing.T) {
		b := make([]byte, 1024)
		for i := range b {
			b[i] = byte(i % 256)
		}
		Zero(b)
		for _, v := range b {
			assert.Equal(t, byte(0), v)
		}
	})
}

func TestZeroAll(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	var c []byte

	assert.NotPanics(t, func() { ZeroAll(a, b, c) })
	assert.Equal(t, []byte{0, 0, 0}, a)
	assert.Equal(t, []byte{0, 0}, b)
}

func TestIsZero(t *testing.T) {
	t.Run("all-zero slice", func(t *testing.T) {
		assert.True(t, IsZero(make([]byte, 16)))
	})

	t.Run("nil and empty slices count as zero", func(t *testing.T) {
		assert.True(t, IsZero(nil))
		assert.True(t, IsZero([]byte{}))
	})

	t.Run("single non-zero byte", func(t *testing.T) {
		b := make([]byte, 16)
		b[15] = 1
		assert.False(t, IsZero(b))
	})
}
