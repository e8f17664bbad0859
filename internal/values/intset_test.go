package values_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zawwz/rmidimap/internal/values"
)

func TestParseIntSet_SinglesAndRanges(t *testing.T) {
	s, err := values.ParseIntSet("0,2,5:7,9-11")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 5, 6, 7, 9, 10, 11}, s.Values())
}

func TestParseIntSet_BareInteger(t *testing.T) {
	s, err := values.ParseIntSet("5")
	require.NoError(t, err)
	assert.Equal(t, []int{5}, s.Values())
}

func TestParseIntSet_ReversedRange(t *testing.T) {
	s, err := values.ParseIntSet("7:5")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7}, s.Values())
}

func TestParseIntSet_Invalid(t *testing.T) {
	_, err := values.ParseIntSet("not-a-number")
	assert.Error(t, err)
}

// Round-trip property from spec §8: parse . format . parse == parse.
func TestIntSet_ParseFormatIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "n")

		literalValues := make([]int, n)
		for i := range literalValues {
			literalValues[i] = rapid.IntRange(0, 127).Draw(rt, "v")
		}

		first := values.NewIntSetFromValues(literalValues)

		second, err := values.ParseIntSet(first.Format())
		require.NoError(rt, err)

		assert.Equal(rt, first.Values(), second.Values())

		third, err := values.ParseIntSet(second.Format())
		require.NoError(rt, err)
		assert.Equal(rt, second.Values(), third.Values())
	})
}
