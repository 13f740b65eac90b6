package comparator

import (
	"errors"
	"fmt"
)

// Defaults for PartialDiff.
const (
	DefaultThreshold  = 1000000
	DefaultWindowSize = 20
)

// ErrInvalidArgument is returned for negative thresholds or window sizes and
// for unknown option values.
var ErrInvalidArgument = errors.New("invalid argument")

// Window is the result of ReduceLines.
type Window struct {
	// Expected and Actual are the line sequences to hand to the Differ.
	Expected []string
	Actual   []string

	// Truncated is true when the inputs were cut down to a window.
	Truncated bool

	// DivergenceIndex is the first line index at which the inputs differ,
	// or -1 when it was not searched for or not found.
	DivergenceIndex int

	// From and To delimit the window in the input line sequences. Both are
	// zero when Truncated is false.
	From int
	To   int
}

// SkipMarker renders the synthetic line that stands in for n skipped lines.
func SkipMarker(n int) string {
	return fmt.Sprintf("skipping %d lines...\n", n)
}

// ReduceLines prepares two line sequences for diffing within a budget.
//
// If len(expected)*len(actual) is below threshold the sequences are returned
// unchanged. Otherwise the first differing line is located and both sides
// are cut down to windowSize lines starting windowSize/2 lines before it,
// with skip markers for the dropped lines. When the sequences do not differ
// over their common length nothing is cut.
//
// The trailing marker counts the expected lines left after the window but is
// appended to the actual side. Existing reports rely on this layout.
func ReduceLines(expected, actual []string, threshold, windowSize int) (Window, error) {
	if threshold < 0 {
		return Window{}, fmt.Errorf("%w: threshold must not be negative, got %d", ErrInvalidArgument, threshold)
	}
	if windowSize < 0 {
		return Window{}, fmt.Errorf("%w: window size must not be negative, got %d", ErrInvalidArgument, windowSize)
	}

	unchanged := Window{Expected: expected, Actual: actual, DivergenceIndex: -1}

	e, a := len(expected), len(actual)
	if int64(e)*int64(a) < int64(threshold) {
		return unchanged, nil
	}

	shorter := min(e, a)
	diffIndex := commonPrefix(expected, actual)
	if diffIndex >= shorter {
		return unchanged, nil
	}

	half := windowSize / 2
	from := max(diffIndex-half, 0)
	to := min(diffIndex+half, shorter)

	reducedExpected := make([]string, 0, windowSize+1)
	if from > 0 {
		reducedExpected = append(reducedExpected, SkipMarker(from))
	}
	reducedExpected = append(reducedExpected, expected[from:min(from+windowSize, e)]...)

	reducedActual := make([]string, 0, windowSize+1)
	reducedActual = append(reducedActual, actual[from:min(from+windowSize, a)]...)
	if to < e {
		reducedActual = append(reducedActual, SkipMarker(e-to))
	}

	return Window{
		Expected:        reducedExpected,
		Actual:          reducedActual,
		Truncated:       true,
		DivergenceIndex: diffIndex,
		From:            from,
		To:              to,
	}, nil
}

// commonPrefix returns the length of the common prefix of two line slices.
func commonPrefix(a, b []string) int {
	count := 0
	for count < len(a) && count < len(b) && a[count] == b[count] {
		count++
	}
	return count
}
