package comparator

import (
	"fmt"
	"unicode/utf8"

	"github.com/dacharyc/diffx"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Operation represents a diff operation type.
type Operation int

const (
	// Equal indicates the line is present on both sides.
	Equal Operation = iota
	// Insert indicates the line is only present in the actual text.
	Insert
	// Delete indicates the line is only present in the expected text.
	Delete
)

// String returns a human-readable representation of the operation.
func (o Operation) String() string {
	switch o {
	case Equal:
		return "Equal"
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// Edit is a single line of an edit script.
type Edit struct {
	Op   Operation
	Line string
}

// Algorithm computes a line edit script that turns expected into actual.
// Implementations must be deterministic and must list the deletions of a
// changed region before its insertions.
type Algorithm func(expected, actual []string) []Edit

// Names accepted by AlgorithmByName.
const (
	AlgorithmHistogram = "histogram"
	AlgorithmMyers     = "myers"
)

// AlgorithmByName returns the algorithm registered under name.
func AlgorithmByName(name string) (Algorithm, error) {
	switch name {
	case AlgorithmHistogram, "":
		return Histogram, nil
	case AlgorithmMyers:
		return Myers, nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q (use %s or %s)",
			ErrInvalidArgument, name, AlgorithmHistogram, AlgorithmMyers)
	}
}

// Histogram diffs lines with diffx's histogram diff, which avoids spurious
// matches on frequent lines such as blank lines or closing braces. When
// diffx returns ops that do not walk both inputs in order, the lines are
// diffed with Myers instead.
func Histogram(expected, actual []string) []Edit {
	if edits, ok := histogramEdits(expected, actual); ok {
		return edits
	}
	if edits, ok := myersEdits(expected, actual); ok {
		return edits
	}
	return replaceEdits(expected, actual)
}

// histogramEdits converts diffx ops into an edit script. It reports false
// unless the ops consume both inputs exactly once, front to back, with
// Equal ops covering identical lines.
func histogramEdits(expected, actual []string) ([]Edit, bool) {
	ops := diffx.DiffHistogram(expected, actual)

	edits := make([]Edit, 0, len(expected)+len(actual))
	i, j := 0, 0
	for _, op := range ops {
		if op.AStart != i || op.BStart != j || op.AEnd < op.AStart || op.BEnd < op.BStart {
			return nil, false
		}
		switch op.Type {
		case diffx.Equal:
			if op.AEnd-op.AStart != op.BEnd-op.BStart || op.AEnd > len(expected) || op.BEnd > len(actual) {
				return nil, false
			}
			for ; i < op.AEnd; i, j = i+1, j+1 {
				if expected[i] != actual[j] {
					return nil, false
				}
				edits = append(edits, Edit{Op: Equal, Line: expected[i]})
			}
		case diffx.Delete:
			if op.BEnd != op.BStart || op.AEnd > len(expected) {
				return nil, false
			}
			for ; i < op.AEnd; i++ {
				edits = append(edits, Edit{Op: Delete, Line: expected[i]})
			}
		case diffx.Insert:
			if op.AEnd != op.AStart || op.BEnd > len(actual) {
				return nil, false
			}
			for ; j < op.BEnd; j++ {
				edits = append(edits, Edit{Op: Insert, Line: actual[j]})
			}
		default:
			return nil, false
		}
	}
	if i != len(expected) || j != len(actual) {
		return nil, false
	}
	return orderChanges(edits), true
}

// replaceEdits keeps the common prefix and suffix and replaces everything
// in between.
func replaceEdits(expected, actual []string) []Edit {
	prefix := commonPrefix(expected, actual)
	suffix := 0
	for suffix < len(expected)-prefix && suffix < len(actual)-prefix &&
		expected[len(expected)-1-suffix] == actual[len(actual)-1-suffix] {
		suffix++
	}

	edits := make([]Edit, 0, len(expected)+len(actual))
	for _, line := range expected[:prefix] {
		edits = append(edits, Edit{Op: Equal, Line: line})
	}
	for _, line := range expected[prefix : len(expected)-suffix] {
		edits = append(edits, Edit{Op: Delete, Line: line})
	}
	for _, line := range actual[prefix : len(actual)-suffix] {
		edits = append(edits, Edit{Op: Insert, Line: line})
	}
	for _, line := range expected[len(expected)-suffix:] {
		edits = append(edits, Edit{Op: Equal, Line: line})
	}
	return edits
}

// maxLineRunes is the number of distinct lines Myers can encode, one rune
// per line with the surrogate range skipped.
const maxLineRunes = utf8.MaxRune + 1 - 0x800

// Myers diffs lines with go-diff's Myers implementation. Every distinct line
// is mapped to one rune so the character diff becomes a line diff. The diff
// timeout is disabled so the result only depends on the input.
func Myers(expected, actual []string) []Edit {
	if edits, ok := myersEdits(expected, actual); ok {
		return edits
	}
	if edits, ok := histogramEdits(expected, actual); ok {
		return edits
	}
	return replaceEdits(expected, actual)
}

// myersEdits reports false when the inputs hold more distinct lines than
// there are runes to encode them.
func myersEdits(expected, actual []string) ([]Edit, bool) {
	runes1, runes2, ok := linesToRunes(expected, actual)
	if !ok {
		return nil, false
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(runes1, runes2, false)

	edits := make([]Edit, 0, len(expected)+len(actual))
	i, j := 0, 0
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			for k := 0; k < n; k++ {
				edits = append(edits, Edit{Op: Equal, Line: expected[i]})
				i++
				j++
			}
		case diffmatchpatch.DiffDelete:
			for k := 0; k < n; k++ {
				edits = append(edits, Edit{Op: Delete, Line: expected[i]})
				i++
			}
		case diffmatchpatch.DiffInsert:
			for k := 0; k < n; k++ {
				edits = append(edits, Edit{Op: Insert, Line: actual[j]})
				j++
			}
		}
	}
	return orderChanges(edits), true
}

// linesToRunes maps every distinct line to its own rune. It reports false
// when there are more distinct lines than encodable runes.
func linesToRunes(expected, actual []string) ([]rune, []rune, bool) {
	index := make(map[string]rune, len(expected))
	encode := func(lines []string) ([]rune, bool) {
		out := make([]rune, len(lines))
		for i, line := range lines {
			r, found := index[line]
			if !found {
				n := len(index)
				if n >= maxLineRunes {
					return nil, false
				}
				r = rune(n)
				if r >= 0xD800 {
					r += 0x800
				}
				index[line] = r
			}
			out[i] = r
		}
		return out, true
	}

	runes1, ok := encode(expected)
	if !ok {
		return nil, nil, false
	}
	runes2, ok := encode(actual)
	if !ok {
		return nil, nil, false
	}
	return runes1, runes2, true
}

// orderChanges rewrites every run of non-Equal edits so that all deletions
// come before all insertions, keeping their relative order.
func orderChanges(edits []Edit) []Edit {
	i := 0
	for i < len(edits) {
		if edits[i].Op == Equal {
			i++
			continue
		}
		start := i
		for i < len(edits) && edits[i].Op != Equal {
			i++
		}
		run := edits[start:i]
		sorted := make([]Edit, 0, len(run))
		for _, e := range run {
			if e.Op == Delete {
				sorted = append(sorted, e)
			}
		}
		for _, e := range run {
			if e.Op == Insert {
				sorted = append(sorted, e)
			}
		}
		copy(run, sorted)
	}
	return edits
}

// HasChanges returns true if the edit script contains any non-Equal edit.
func HasChanges(edits []Edit) bool {
	for _, e := range edits {
		if e.Op != Equal {
			return true
		}
	}
	return false
}
