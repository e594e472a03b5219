package mpref

import (
	stdmath "math"
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPowExactValues(t *testing.T) {
	c := New(0)
	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"2^10", 2, 10, 1024},
		{"(-2)^3", -2, 3, -8},
		{"(-2)^2", -2, 2, 4},
		{"4^0.5", 4, 0.5, 2},
		{"1^123.5", 1, 123.5, 1},
		{"0.5^-3", 0.5, -3, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := c.Pow(tt.x, tt.y)
			require.NoError(t, err)
			e, err := c.ULPError(tt.want, ref)
			require.NoError(t, err)
			assert.Zero(t, e)
		})
	}
}

func TestPowRoundsToDigits(t *testing.T) {
	c := New(0)
	ref, err := c.Pow(2, 3)
	require.NoError(t, err)
	assert.Zero(t, ref.Cmp(apd.New(8, 0)), "2^3 = %s", ref)
	assert.LessOrEqual(t, ref.NumDigits(), int64(c.Digits()))

	ref, err = c.Pow(3, 0.5)
	require.NoError(t, err)
	assert.Equal(t, int64(c.Digits()), ref.NumDigits())
}

func TestPowRejectsNonReal(t *testing.T) {
	c := New(0)
	_, err := c.Pow(-2, 2.5)
	assert.Error(t, err)
	_, err = c.Pow(0, 1)
	assert.Error(t, err)
	_, err = c.Decimal(stdmath.Inf(1))
	assert.Error(t, err)
	_, err = c.Decimal(stdmath.NaN())
	assert.Error(t, err)
}

func TestULPErrorNeighbours(t *testing.T) {
	c := New(0)
	ref, err := c.Decimal(1024)
	require.NoError(t, err)

	up, err := c.ULPError(stdmath.Nextafter(1024, 2048), ref)
	require.NoError(t, err)
	assert.InDelta(t, 1, up, 1e-20)

	// Below a power of two the spacing halves, but the error is measured
	// in the ULP of the binade holding the exact value.
	down, err := c.ULPError(stdmath.Nextafter(1024, 0), ref)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, down, 1e-20)
}

func TestULPErrorBelowPowerOfTwo(t *testing.T) {
	c := New(0)
	// 2^53-1 lies in the binade below 2^53, whose ULP is 1.
	want, err := c.Decimal(stdmath.Nextafter(0x1p53, 0))
	require.NoError(t, err)
	e, err := c.ULPError(0x1p53, want)
	require.NoError(t, err)
	assert.InDelta(t, 1, e, 1e-20)
}

func TestULPErrorOutOfRange(t *testing.T) {
	c := New(0)

	huge, err := c.Pow(2, 2000)
	require.NoError(t, err)
	e, err := c.ULPError(stdmath.Inf(1), huge)
	require.NoError(t, err)
	assert.Zero(t, e)

	e, err = c.ULPError(stdmath.MaxFloat64, huge)
	require.NoError(t, err)
	assert.Less(t, e, -1.0)

	tiny, err := c.Pow(2, -1200)
	require.NoError(t, err)
	e, err = c.ULPError(0, tiny)
	require.NoError(t, err)
	assert.InDelta(t, 0, e, 1e-9)

	negHuge, err := c.Pow(-2, 2001)
	require.NoError(t, err)
	e, err = c.ULPError(stdmath.Inf(1), negHuge)
	require.NoError(t, err)
	assert.True(t, stdmath.IsInf(e, 1))
}

func TestULPErrorNaN(t *testing.T) {
	c := New(0)
	ref, err := c.Pow(3, 3)
	require.NoError(t, err)
	e, err := c.ULPError(stdmath.NaN(), ref)
	require.NoError(t, err)
	assert.True(t, stdmath.IsNaN(e))
}

func TestBinadeULP(t *testing.T) {
	assert.Equal(t, 0x1p-52, binadeULP(1))
	assert.Equal(t, 0x1p-52, binadeULP(-1.5))
	assert.Equal(t, 0x1p-1074, binadeULP(5e-324))
	assert.Equal(t, 0x1p-1074, binadeULP(0))
	assert.Equal(t, 0x1p971, binadeULP(stdmath.MaxFloat64))
}

func TestDigits(t *testing.T) {
	assert.Equal(t, uint32(DefaultDigits), New(0).Digits())
	assert.Equal(t, uint32(60), New(60).Digits())
}
