package ir

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTitle trims surrounding whitespace and NFC normalizes a library
// title so that visually identical titles compare equal in the store.
func NormalizeTitle(title string) string {
	return norm.NFC.String(strings.TrimSpace(title))
}
