package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Fold brings user text to the form the static tables are written in:
// NFC-composed (Vietnamese keyboards often send decomposed diacritics) and lowercased.
func Fold(s string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(s)))
}

// Tokens splits folded text on every rune that is not a letter, digit or apostrophe.
func Tokens(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// CollapseSpaces replaces every run of whitespace (newlines included) with a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ClampRunes ensures a string does not exceed max runes.
func ClampRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// ClampSentences cuts s to at most max runes, preferring to stop right after
// the last sentence terminator inside the limit. Falls back to a word boundary plus "…".
func ClampSentences(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	cut := r[:max]
	for i := len(cut) - 1; i > max/3; i-- {
		switch cut[i] {
		case '.', '!', '?', '…':
			return strings.TrimSpace(string(cut[:i+1]))
		}
	}
	head := string(cut)
	if sp := strings.LastIndexByte(head, ' '); sp > 0 {
		head = head[:sp]
	}
	return strings.TrimSpace(head) + "…"
}
