// Package comparator reports mismatches between an expected and an actual
// value and renders the difference between their string representations as
// a unified diff.
//
// A Mismatch is built once an equality check fails, from the two values and
// their already formatted representations:
//
//	m := comparator.NewFromStrings(want, got, "\nA\n", "\nB\n")
//	fmt.Print(m.Diff())
//
// prints a blank line, the header, and a hunk whose first line is the
// common empty line, rendered as a single space:
//
//	"\n--- Expected\n+++ Actual\n@@ @@\n \n-A\n+B\n"
//
// Diffing two very large texts is expensive: the line diff costs roughly
// len(expected)*len(actual). PartialDiff keeps that bounded by cutting both
// texts down to a window around the first differing line once the product
// of their line counts reaches a threshold. The dropped lines are replaced
// by "skipping N lines..." markers.
//
// This package uses github.com/dacharyc/diffx for the default line diff and
// github.com/sergi/go-diff for the Myers alternative.
package comparator

// Options configures a Mismatch.
type Options struct {
	// Identical records that the compared values were expected to be
	// identical rather than merely equal. It is stored for the caller and
	// does not change the diff.
	Identical bool

	// Message is prefixed to the diff by String.
	Message string

	// Differ renders diffs. If nil, a UnifiedDiffer with DefaultHeader is
	// used.
	Differ Differ
}

// DefaultOptions returns Options with default settings.
func DefaultOptions() Options {
	return Options{
		Differ: NewUnifiedDiffer(DefaultHeader),
	}
}

// Mismatch is an immutable report of a failed equality check.
// It is safe for concurrent use.
type Mismatch struct {
	expected     any
	actual       any
	expectedText Text
	actualText   Text
	identical    bool
	message      string
	differ       Differ
}

// New returns a Mismatch for the given values and their representations.
func New(expected, actual any, expectedText, actualText Text, opts Options) *Mismatch {
	differ := opts.Differ
	if differ == nil {
		differ = NewUnifiedDiffer(DefaultHeader)
	}
	return &Mismatch{
		expected:     expected,
		actual:       actual,
		expectedText: expectedText,
		actualText:   actualText,
		identical:    opts.Identical,
		message:      opts.Message,
		differ:       differ,
	}
}

// NewFromStrings is New with string representations and default options.
func NewFromStrings(expected, actual any, expectedText, actualText string) *Mismatch {
	return New(expected, actual, String(expectedText), String(actualText), DefaultOptions())
}

// Expected returns the expected value.
func (m *Mismatch) Expected() any { return m.expected }

// Actual returns the actual value.
func (m *Mismatch) Actual() any { return m.actual }

// ExpectedAsString returns the string representation of the expected value.
func (m *Mismatch) ExpectedAsString() string { return m.expectedText.String() }

// ActualAsString returns the string representation of the actual value.
func (m *Mismatch) ActualAsString() string { return m.actualText.String() }

// ExpectedText returns the representation of the expected value in the
// form it was given.
func (m *Mismatch) ExpectedText() Text { return m.expectedText }

// ActualText returns the representation of the actual value in the form it
// was given.
func (m *Mismatch) ActualText() Text { return m.actualText }

// Identical reports the flag given at construction.
func (m *Mismatch) Identical() bool { return m.identical }

// Message returns the message prefix.
func (m *Mismatch) Message() string { return m.message }

// Diff returns the unified diff of the two representations. It returns ""
// when both representations are empty.
func (m *Mismatch) Diff() string {
	return m.callDiffer(m.expectedText.Lines(), m.actualText.Lines())
}

// PartialDiff returns the unified diff of the two representations after
// ReduceLines cut them down with threshold and windowSize.
func (m *Mismatch) PartialDiff(threshold, windowSize int) (string, error) {
	diff, _, err := m.WindowedDiff(threshold, windowSize)
	return diff, err
}

// WindowedDiff is PartialDiff that also returns the Window the diff was
// computed from.
func (m *Mismatch) WindowedDiff(threshold, windowSize int) (string, Window, error) {
	w, err := ReduceLines(m.expectedText.Lines(), m.actualText.Lines(), threshold, windowSize)
	if err != nil {
		return "", Window{}, err
	}
	return m.callDiffer(w.Expected, w.Actual), w, nil
}

// BoundedDiff is PartialDiff with DefaultThreshold and DefaultWindowSize.
func (m *Mismatch) BoundedDiff() string {
	diff, _ := m.PartialDiff(DefaultThreshold, DefaultWindowSize)
	return diff
}

// String returns the message followed by the full diff.
func (m *Mismatch) String() string {
	return m.message + m.Diff()
}

// Error implements error.
func (m *Mismatch) Error() string {
	return m.String()
}

// Statistics returns line counts for the full diff.
func (m *Mismatch) Statistics() Statistics {
	return ComputeStatistics(m.edits(m.expectedText.Lines(), m.actualText.Lines()))
}

// edits returns the edit script from the configured differ when it exposes
// one, and from Histogram otherwise.
func (m *Mismatch) edits(expected, actual []string) []Edit {
	if es, ok := m.differ.(interface {
		Edits(expected, actual []string) []Edit
	}); ok {
		return es.Edits(expected, actual)
	}
	return Histogram(expected, actual)
}

func (m *Mismatch) callDiffer(expected, actual []string) string {
	if len(expected) == 0 && len(actual) == 0 {
		return ""
	}
	return m.differ.Diff(expected, actual)
}
