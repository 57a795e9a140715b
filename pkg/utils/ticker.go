// Package utils holds small helpers shared across newspulse packages.
package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeTicker converts user or file input to the canonical symbol form:
// trimmed, uppercased, with a leading cashtag "$" removed.
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))
	return strings.TrimPrefix(ticker, "$")
}

// IsWordRune reports whether r can be part of a ticker-like token.
// A symbol only matches when it is not flanked by such runes.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ContainsToken reports whether token occurs in text as a standalone word:
// case-sensitive, and not adjacent to a letter, digit or underscore.
func ContainsToken(text, token string) bool {
	if token == "" {
		return false
	}
	for from := 0; from <= len(text)-len(token); {
		i := strings.Index(text[from:], token)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(token)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !IsWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !IsWordRune(r)
}
