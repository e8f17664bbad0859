package values

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an inclusive [Start, End] pair over float64, the common currency
// used by Remapper regardless of the configured source/destination type.
type Range struct {
	Start float64
	End   float64
}

// NewRange builds a Range from explicit bounds.
func NewRange(start, end float64) Range {
	return Range{Start: start, End: end}
}

// ParseRange parses a literal like "0-100" or "0:100", or a bare number
// ("5") as a zero-width range.
func ParseRange(literal string) (Range, error) {
	literal = strings.TrimSpace(literal)

	sep := strings.IndexAny(literal, ":-")
	if sep <= 0 {
		v, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return Range{}, fmt.Errorf("values: invalid range literal %q: %w", literal, err)
		}

		return Range{Start: v, End: v}, nil
	}

	start, err := strconv.ParseFloat(literal[:sep], 64)
	if err != nil {
		return Range{}, fmt.Errorf("values: invalid range start %q: %w", literal, err)
	}

	end, err := strconv.ParseFloat(literal[sep+1:], 64)
	if err != nil {
		return Range{}, fmt.Errorf("values: invalid range end %q: %w", literal, err)
	}

	return Range{Start: start, End: end}, nil
}

// UnmarshalYAML accepts a bare number, a compact "lo-hi"/"lo:hi" string, or
// a two-element YAML sequence.
func (r *Range) UnmarshalYAML(unmarshal func(any) error) error {
	var asFloat float64
	if err := unmarshal(&asFloat); err == nil {
		*r = Range{Start: asFloat, End: asFloat}

		return nil
	}

	var asString string
	if err := unmarshal(&asString); err == nil {
		parsed, err := ParseRange(asString)
		if err != nil {
			return err
		}

		*r = parsed

		return nil
	}

	var pair [2]float64
	if err := unmarshal(&pair); err != nil {
		return fmt.Errorf("values: range must be a number, a literal string, or a 2-element list: %w", err)
	}

	*r = Range{Start: pair[0], End: pair[1]}

	return nil
}
