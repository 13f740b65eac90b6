package comparator

import (
	"fmt"
	"strings"
)

// Differ renders the difference between two line sequences.
type Differ interface {
	Diff(expected, actual []string) string
}

// DefaultHeader is the header written in front of every mismatch diff.
const DefaultHeader = "\n--- Expected\n+++ Actual\n"

// HunkHeader starts every hunk. Line numbers are not rendered.
const HunkHeader = "@@ @@\n"

// LineEndingWarning is rendered as the first line of a diff whose two sides
// use different line terminators.
const LineEndingWarning = "#Warning: Strings contain different line endings!\n"

// UnifiedDiffer renders unified diffs without line numbers.
type UnifiedDiffer struct {
	// Header is written before the first hunk. A missing final newline is
	// added.
	Header string

	// ContextLines is the number of equal lines shown before and after each
	// change.
	ContextLines int

	// CommonLineThreshold is the number of consecutive equal lines that
	// closes a hunk. The effective value is never below ContextLines.
	CommonLineThreshold int

	// Algorithm computes the edit script. If nil, Histogram is used.
	Algorithm Algorithm

	// WarnLineEndings enables the LineEndingWarning line.
	WarnLineEndings bool
}

// NewUnifiedDiffer returns a UnifiedDiffer with the default settings and the
// given header.
func NewUnifiedDiffer(header string) *UnifiedDiffer {
	return &UnifiedDiffer{
		Header:              header,
		ContextLines:        3,
		CommonLineThreshold: 6,
		Algorithm:           Histogram,
		WarnLineEndings:     true,
	}
}

// renderLine is one line of rendered hunk content.
type renderLine struct {
	prefix byte
	text   string
	equal  bool
}

// Edits returns the edit script for expected and actual.
func (u *UnifiedDiffer) Edits(expected, actual []string) []Edit {
	algo := u.Algorithm
	if algo == nil {
		algo = Histogram
	}
	return algo(expected, actual)
}

// Diff implements Differ.
func (u *UnifiedDiffer) Diff(expected, actual []string) string {
	edits := u.Edits(expected, actual)

	var sb strings.Builder
	if u.Header != "" {
		sb.WriteString(u.Header)
		if !strings.HasSuffix(u.Header, "\n") {
			sb.WriteByte('\n')
		}
	}

	lines := make([]renderLine, 0, len(edits)+1)
	if u.WarnLineEndings && hasMixedLineEndings(edits) {
		lines = append(lines, renderLine{prefix: ' ', text: LineEndingWarning})
	}
	for _, e := range edits {
		switch e.Op {
		case Equal:
			lines = append(lines, renderLine{prefix: ' ', text: e.Line, equal: true})
		case Delete:
			lines = append(lines, renderLine{prefix: '-', text: e.Line})
		case Insert:
			lines = append(lines, renderLine{prefix: '+', text: e.Line})
		}
	}

	u.writeHunks(&sb, lines)

	out := sb.String()
	if out != "" && !strings.HasSuffix(out, "\n") && !strings.HasSuffix(out, "\r") {
		out += "\n"
	}
	return out
}

// writeHunks groups lines into hunks. A hunk starts ContextLines before its
// first change and ends ContextLines after its last change, where a change
// is the last one once it is followed by a run of cutOff equal lines.
func (u *UnifiedDiffer) writeHunks(sb *strings.Builder, lines []renderLine) {
	context := max(u.ContextLines, 0)
	cutOff := max(u.CommonLineThreshold, context, 1)

	start, prevEnd := -1, 0
	same := 0
	for i, l := range lines {
		if l.equal {
			if start < 0 {
				continue
			}
			same++
			if same == cutOff {
				lead := min(start-prevEnd, context)
				prevEnd = i - cutOff + context + 1
				writeHunk(sb, lines[start-lead:prevEnd])
				start = -1
				same = 0
			}
			continue
		}
		same = 0
		if start < 0 {
			start = i
		}
	}
	if start < 0 {
		return
	}

	lead := min(start-prevEnd, context)
	end := len(lines) - same + min(same, context)
	writeHunk(sb, lines[start-lead:end])
}

func writeHunk(sb *strings.Builder, lines []renderLine) {
	sb.WriteString(HunkHeader)
	for _, l := range lines {
		sb.WriteByte(l.prefix)
		sb.WriteString(l.text)
		if lineEnding(l.text) == "" {
			sb.WriteByte('\n')
		}
	}
}

// hasMixedLineEndings reports whether the expected and actual sides of the
// edit script use different sets of line terminators. Sides where no line
// has a terminator never trigger the warning.
func hasMixedLineEndings(edits []Edit) bool {
	expected := map[string]bool{"": true}
	actual := map[string]bool{"": true}
	for _, e := range edits {
		ending := lineEnding(e.Line)
		switch e.Op {
		case Equal:
			expected[ending] = true
			actual[ending] = true
		case Delete:
			expected[ending] = true
		case Insert:
			actual[ending] = true
		}
	}

	if len(expected) == 1 || len(actual) == 1 {
		return false
	}
	for ending := range actual {
		if !expected[ending] {
			return true
		}
	}
	for ending := range expected {
		if !actual[ending] {
			return true
		}
	}
	return false
}

// Hunk is a single hunk of a rendered diff.
type Hunk struct {
	// Edits holds the hunk lines with their prefix removed. Lines keep
	// their terminator.
	Edits []Edit
}

// Removed returns the lines of the hunk that only the expected side has.
func (h Hunk) Removed() []string {
	return h.linesOf(Delete)
}

// Added returns the lines of the hunk that only the actual side has.
func (h Hunk) Added() []string {
	return h.linesOf(Insert)
}

func (h Hunk) linesOf(op Operation) []string {
	var lines []string
	for _, e := range h.Edits {
		if e.Op == op {
			lines = append(lines, e.Line)
		}
	}
	return lines
}

// Unified is a parsed unified diff as rendered by UnifiedDiffer.
type Unified struct {
	// Header is the raw text before the first hunk.
	Header string
	// Expected is the label from the "---" line.
	Expected string
	// Actual is the label from the "+++" line.
	Actual string
	// Hunks contains all the diff hunks.
	Hunks []Hunk
}

// ParseUnified parses a diff rendered by UnifiedDiffer. Hunk headers may
// carry line ranges; they are ignored.
func ParseUnified(input string) (Unified, error) {
	var result Unified
	var header strings.Builder
	var current *Hunk

	flushHunk := func() {
		if current != nil {
			result.Hunks = append(result.Hunks, *current)
			current = nil
		}
	}

	for n, line := range SplitLines(input) {
		if strings.HasPrefix(line, "@@") {
			flushHunk()
			current = &Hunk{}
			continue
		}

		if current == nil {
			header.WriteString(line)
			trimmed := strings.TrimRight(line, "\r\n")
			if strings.HasPrefix(trimmed, "--- ") {
				result.Expected = strings.TrimPrefix(trimmed, "--- ")
			} else if strings.HasPrefix(trimmed, "+++ ") {
				result.Actual = strings.TrimPrefix(trimmed, "+++ ")
			}
			continue
		}

		switch line[0] {
		case ' ':
			current.Edits = append(current.Edits, Edit{Op: Equal, Line: line[1:]})
		case '-':
			current.Edits = append(current.Edits, Edit{Op: Delete, Line: line[1:]})
		case '+':
			current.Edits = append(current.Edits, Edit{Op: Insert, Line: line[1:]})
		default:
			return Unified{}, fmt.Errorf("line %d: unexpected hunk line %q", n+1, line)
		}
	}

	flushHunk()
	result.Header = header.String()
	return result, nil
}
