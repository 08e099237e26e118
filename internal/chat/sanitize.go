package chat

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// sanitize makes backend-supplied text safe to print in the terminal. Escape
// sequences are stripped, line breaks become spaces so remote text cannot
// start a line of its own, and every other control character except tab is
// removed.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return r
		case r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, ansi.Strip(s))
}
