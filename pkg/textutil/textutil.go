// Package textutil formats help text for terminal output.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// Wrap splits text into lines of at most width characters, breaking on whitespace. Runs of
// whitespace collapse to a single space and words longer than width get a line of their own. A
// width of zero or less disables wrapping and returns the collapsed text as one line.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}
	var (
		lines   []string
		current strings.Builder
		length  int
	)
	for _, word := range words {
		n := utf8.RuneCountInString(word)
		if length > 0 && length+1+n > width {
			lines = append(lines, current.String())
			current.Reset()
			length = 0
		}
		if length > 0 {
			current.WriteByte(' ')
			length++
		}
		current.WriteString(word)
		length += n
	}
	return append(lines, current.String())
}
