package plate

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a raw license-plate read: uppercase, with every
// character that is not a letter or digit stripped. Two camera reads of the
// same physical plate ("ab-123 cd", "AB123CD") normalize to the same key.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// IsValid reports whether a normalized plate is plausible. Camera firmware
// occasionally emits empty or absurdly long garbage reads.
func IsValid(normalized string) bool {
	return len(normalized) >= 2 && len(normalized) <= 16
}
