// Package guard blocks outbound text that looks like a Discord token.
//
// The match is a heuristic: it can miss tokens and it can block harmless text
// that happens to have the same shape.
package guard

import "regexp"

var tokenPattern = regexp.MustCompile(`[A-Za-z0-9_-]{16,}\.[A-Za-z0-9_-]{5,}\.[A-Za-z0-9_-]{16,}`)

func ContainsSecretLike(text string) bool {
	return tokenPattern.MatchString(text)
}
