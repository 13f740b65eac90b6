package comparator

import "strings"

// Text is the string representation of a compared value. It holds either a
// single string or a sequence of lines that the caller already split.
// Both forms are accepted by every diff-producing operation.
type Text struct {
	s     string
	lines []string
	split bool
}

// String returns a Text holding s.
func String(s string) Text {
	return Text{s: s}
}

// Lines returns a Text holding an already split sequence of lines.
// Lines are used verbatim; they may or may not carry their terminators.
func Lines(lines ...string) Text {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return Text{lines: cp, split: true}
}

// IsSplit reports whether t was constructed from a line sequence.
func (t Text) IsSplit() bool {
	return t.split
}

// IsEmpty reports whether t has no content at all.
func (t Text) IsEmpty() bool {
	if t.split {
		return len(t.lines) == 0
	}
	return t.s == ""
}

// String returns the text as a single string. For a line sequence the lines
// are concatenated without adding separators.
func (t Text) String() string {
	if t.split {
		return strings.Join(t.lines, "")
	}
	return t.s
}

// Lines returns the text as a line sequence. The returned slice is a copy.
func (t Text) Lines() []string {
	if t.split {
		cp := make([]string, len(t.lines))
		copy(cp, t.lines)
		return cp
	}
	return SplitLines(t.s)
}

// SplitLines splits s into lines, each line keeping its terminator ("\n",
// "\r\n" or "\r"). A final line without a terminator is kept as is. No
// content is dropped: joining the result reproduces s exactly.
//
// Vertical tab, form feed and NEL are not line terminators; they stay inside
// their line so multi-byte UTF-8 sequences are never cut.
func SplitLines(s string) []string {
	if s == "" {
		return []string{}
	}

	lines := make([]string, 0, strings.Count(s, "\n")+1)
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i+1])
			start = i + 1
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// lineEnding returns the terminator of line, or "" if it has none.
func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	case strings.HasSuffix(line, "\r"):
		return "\r"
	default:
		return ""
	}
}
