package comparator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// nineLines returns "line1\n...line9" and the same text with line5 replaced.
func nineLines() (string, string) {
	var expected, actual []string
	for i := 1; i < 10; i++ {
		expected = append(expected, fmt.Sprintf("line%d", i))
		if i == 5 {
			actual = append(actual, fmt.Sprintf("modified line%d", i))
		} else {
			actual = append(actual, fmt.Sprintf("line%d", i))
		}
	}
	return strings.Join(expected, "\n"), strings.Join(actual, "\n")
}

func TestMismatch(t *testing.T) {
	actual := "\nB\n"
	expected := "\nA\n"
	message := "Test message"

	m := New(expected, actual, String("|"+expected), String("|"+actual), Options{Message: message})

	assert.Equal(t, actual, m.Actual())
	assert.Equal(t, expected, m.Expected())
	assert.Equal(t, "|"+actual, m.ActualAsString())
	assert.Equal(t, "|"+expected, m.ExpectedAsString())
	assert.False(t, m.Identical())
	assert.Equal(t, message, m.Message())

	diff := "\n--- Expected\n+++ Actual\n@@ @@\n |\n-A\n+B\n"
	assert.Equal(t, diff, m.Diff())
	assert.Equal(t, message+diff, m.String())
	assert.Equal(t, message+diff, m.Error())
}

func TestMismatchBlankFirstLine(t *testing.T) {
	m := NewFromStrings(nil, nil, "\nA\n", "\nB\n")
	assert.Equal(t, "\n--- Expected\n+++ Actual\n@@ @@\n \n-A\n+B\n", m.Diff())
}

func TestMismatchPartialDiff(t *testing.T) {
	expected, actual := nineLines()
	m := NewFromStrings(expected, actual, expected, actual)

	want := "\n--- Expected\n+++ Actual\n@@ @@\n" +
		"-skipping 2 lines...\n" +
		" line3\n" +
		" line4\n" +
		"-line5\n" +
		"+modified line5\n" +
		" line6\n" +
		" line7\n" +
		"+skipping 3 lines...\n"

	got, err := m.PartialDiff(1, 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMismatchWindowedDiff(t *testing.T) {
	expected, actual := nineLines()
	m := NewFromStrings(expected, actual, expected, actual)

	diff, w, err := m.WindowedDiff(1, 5)
	require.NoError(t, err)

	partial, err := m.PartialDiff(1, 5)
	require.NoError(t, err)
	assert.Equal(t, partial, diff)
	assert.True(t, w.Truncated)
	assert.Equal(t, 4, w.DivergenceIndex)
	assert.Equal(t, 2, w.From)
	assert.Equal(t, 6, w.To)

	_, _, err = m.WindowedDiff(-1, 5)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestMismatchPartialDiffBelowThreshold(t *testing.T) {
	expected, actual := nineLines()
	m := NewFromStrings(expected, actual, expected, actual)

	got, err := m.PartialDiff(DefaultThreshold, DefaultWindowSize)
	require.NoError(t, err)
	assert.Equal(t, m.Diff(), got)
	assert.Equal(t, m.Diff(), m.BoundedDiff())
	assert.NotContains(t, got, "skipping")
}

func TestMismatchPartialDiffInvalidArguments(t *testing.T) {
	m := NewFromStrings("a", "b", "a", "b")

	_, err := m.PartialDiff(-1, 5)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = m.PartialDiff(1, -5)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDiffNotPossible(t *testing.T) {
	m := New("a", "b", String(""), String(""), Options{Identical: true, Message: "test"})

	assert.True(t, m.Identical())
	assert.Equal(t, "", m.Diff())
	assert.Equal(t, "test", m.String())

	partial, err := m.PartialDiff(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "", partial)
}

func TestMismatchEmptyLineSequences(t *testing.T) {
	m := New(nil, nil, Lines(), Lines(), DefaultOptions())
	assert.Equal(t, "", m.Diff())
}

func TestMismatchEqualTexts(t *testing.T) {
	m := NewFromStrings(1, 1, "same\n", "same\n")
	assert.Equal(t, DefaultHeader, m.Diff())
}

func TestMismatchLineSequences(t *testing.T) {
	tests := []struct {
		name     string
		expected Text
		actual   Text
		want     string
	}{
		{
			name:     "terminated lines",
			expected: Lines("|\n", "A\n"),
			actual:   Lines("|\n", "B\n"),
			want:     DefaultHeader + "@@ @@\n |\n-A\n+B\n",
		},
		{
			name:     "lines without terminators",
			expected: Lines("a", "b"),
			actual:   Lines("a", "c"),
			want:     DefaultHeader + "@@ @@\n a\n-b\n+c\n",
		},
		{
			name:     "string against lines",
			expected: String("|\nA\n"),
			actual:   Lines("|\n", "B\n"),
			want:     DefaultHeader + "@@ @@\n |\n-A\n+B\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(nil, nil, tt.expected, tt.actual, DefaultOptions())
			assert.Equal(t, tt.want, m.Diff())
		})
	}
}

func TestMismatchLineSequencePartialDiff(t *testing.T) {
	expected, actual := nineLines()
	m := New(nil, nil, Lines(SplitLines(expected)...), Lines(SplitLines(actual)...), DefaultOptions())
	fromStrings := NewFromStrings(nil, nil, expected, actual)

	got, err := m.PartialDiff(1, 5)
	require.NoError(t, err)
	want, err := fromStrings.PartialDiff(1, 5)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, expected, m.ExpectedAsString())
}

func TestMismatchMissingFinalNewline(t *testing.T) {
	m := NewFromStrings(nil, nil, "a\nb", "a\nc")
	assert.Equal(t, DefaultHeader+"@@ @@\n a\n-b\n+c\n", m.Diff())
}

func TestMismatchMessageIsNeverAltered(t *testing.T) {
	messages := []string{"", "failed", "multi\nline\n", "  padded  "}
	for _, msg := range messages {
		m := New(nil, nil, String("x\n"), String("y\n"), Options{Message: msg})
		assert.Equal(t, msg+m.Diff(), m.String())
	}
}

func TestMismatchCustomDiffer(t *testing.T) {
	d := NewUnifiedDiffer("--- want\n+++ got")
	d.Algorithm = Myers
	m := New(nil, nil, String("|\nA\n"), String("|\nB\n"), Options{Differ: d})

	assert.Equal(t, "--- want\n+++ got\n@@ @@\n |\n-A\n+B\n", m.Diff())
}

func TestMismatchStatistics(t *testing.T) {
	m := NewFromStrings(nil, nil, "|\nA\n", "|\nB\n")
	st := m.Statistics()

	assert.Equal(t, Statistics{
		ExpectedLines: 2,
		ActualLines:   2,
		RemovedLines:  1,
		AddedLines:    1,
		CommonLines:   1,
	}, st)
	assert.True(t, st.HasChanges())
}

func TestMismatchAsError(t *testing.T) {
	var err error = NewFromStrings(1, 2, "1\n", "2\n")
	assert.Contains(t, err.Error(), "-1\n+2\n")
}

func TestMismatchDeterministic(t *testing.T) {
	var expected, actual strings.Builder
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&expected, "row %d\n", i)
		if i%37 == 0 {
			fmt.Fprintf(&actual, "changed row %d\n", i)
		} else {
			fmt.Fprintf(&actual, "row %d\n", i)
		}
	}
	m := NewFromStrings(nil, nil, expected.String(), actual.String())

	wantFull := m.Diff()
	wantPartial, err := m.PartialDiff(1000, 10)
	require.NoError(t, err)
	require.Contains(t, wantPartial, "skipping")

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			if got := m.Diff(); got != wantFull {
				return fmt.Errorf("full diff changed between calls")
			}
			got, err := m.PartialDiff(1000, 10)
			if err != nil {
				return err
			}
			if got != wantPartial {
				return fmt.Errorf("partial diff changed between calls")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
