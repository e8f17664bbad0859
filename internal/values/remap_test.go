package values_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zawwz/rmidimap/internal/values"
)

func TestRemapper_ControllerExample(t *testing.T) {
	// spec §8 scenario 3: controller 0-127 remapped to 0-100, value 100.
	r, err := values.NewRemapper(values.NewRange(0, 127), values.NewRange(0, 100))
	require.NoError(t, err)

	got := r.RemapToInt(100, 0, 100)
	assert.Equal(t, int64(78), got)
}

func TestRemapper_OutOfRangeDestination(t *testing.T) {
	huge := math.MaxInt64
	_, err := values.NewRemapper(values.NewRange(0, 127), values.NewRange(0, float64(huge)*4))
	assert.ErrorIs(t, err, values.ErrRemapOutOfRange)
}

// Remap saturation property from spec §8: remap_to_int(v) always lies in
// [min, max] for any v.
func TestRemapper_SaturationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		srcLo := rapid.Float64Range(-1000, 1000).Draw(rt, "srcLo")
		srcHi := rapid.Float64Range(-1000, 1000).Draw(rt, "srcHi")
		dstLo := rapid.Int64Range(-1000, 1000).Draw(rt, "dstLo")
		dstHi := rapid.Int64Range(-1000, 1000).Draw(rt, "dstHi")
		v := rapid.Float64Range(-10000, 10000).Draw(rt, "v")

		if srcHi == srcLo {
			srcHi++
		}

		r, err := values.NewRemapper(values.NewRange(srcLo, srcHi), values.NewRange(float64(dstLo), float64(dstHi)))
		require.NoError(rt, err)

		lo, hi := dstLo, dstHi
		if lo > hi {
			lo, hi = hi, lo
		}

		got := r.RemapToInt(v, dstLo, dstHi)
		assert.GreaterOrEqual(rt, got, lo)
		assert.LessOrEqual(rt, got, hi)
	})
}
