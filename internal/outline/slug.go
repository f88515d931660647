package outline

import (
	"fmt"
	"strings"
	"unicode"
)

// Slugify derives an identifier from heading text: lower-cased, runes other
// than ASCII letters, digits, '_', whitespace and '-' dropped, whitespace runs
// collapsed into a single '-'. The result may be empty, e.g. for CJK text.
func Slugify(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	var kept strings.Builder
	for _, r := range text {
		switch {
		case isWordChar(r), r == '-', unicode.IsSpace(r):
			kept.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(kept.String()), "-")
}

// positionalID is the fallback id for the heading at index
func positionalID(index int) string {
	return fmt.Sprintf("heading-%d", index)
}

func isWordChar(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
