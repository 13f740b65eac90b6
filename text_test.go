package comparator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"no terminator", "abc", []string{"abc"}},
		{"single line", "abc\n", []string{"abc\n"}},
		{"blank lines", "\n\n", []string{"\n", "\n"}},
		{"leading blank line", "\nA\n", []string{"\n", "A\n"}},
		{"crlf", "a\r\nb\r\n", []string{"a\r\n", "b\r\n"}},
		{"lone cr", "a\rb", []string{"a\r", "b"}},
		{"mixed", "a\r\nb\rc\n\n", []string{"a\r\n", "b\r", "c\n", "\n"}},
		{"trailing cr", "a\r", []string{"a\r"}},
		{"vertical tab and form feed", "a\vb\fc\n", []string{"a\vb\fc\n"}},
		{"nel and latin letter", "\u0085\u00c5\n", []string{"\u0085\u00c5\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.input, strings.Join(got, ""))
		})
	}
}

func TestText(t *testing.T) {
	s := String("a\nb")
	assert.False(t, s.IsSplit())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, "a\nb", s.String())
	assert.Equal(t, []string{"a\n", "b"}, s.Lines())

	l := Lines("a\n", "b")
	assert.True(t, l.IsSplit())
	assert.False(t, l.IsEmpty())
	assert.Equal(t, "a\nb", l.String())
	assert.Equal(t, []string{"a\n", "b"}, l.Lines())

	assert.True(t, String("").IsEmpty())
	assert.True(t, Lines().IsEmpty())
	assert.Equal(t, []string{}, Lines().Lines())
}

func TestTextIsImmutable(t *testing.T) {
	src := []string{"a\n", "b\n"}
	text := Lines(src...)
	src[0] = "changed\n"

	lines := text.Lines()
	lines[1] = "changed\n"

	assert.Equal(t, []string{"a\n", "b\n"}, text.Lines())
}

func TestLineEnding(t *testing.T) {
	assert.Equal(t, "\n", lineEnding("a\n"))
	assert.Equal(t, "\r\n", lineEnding("a\r\n"))
	assert.Equal(t, "\r", lineEnding("a\r"))
	assert.Equal(t, "", lineEnding("a"))
	assert.Equal(t, "", lineEnding(""))
}
