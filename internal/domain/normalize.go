package domain

import (
	"strings"
)

// NormalizeKey prepares an attribute or tag name for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - replaces inner runs of spaces and hyphens with a single underscore
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	key = strings.ToLower(key)

	var b strings.Builder
	b.Grow(len(key))
	prevSep := false
	for _, r := range key {
		if r == ' ' || r == '-' || r == '_' {
			if prevSep {
				continue
			}
			prevSep = true
			b.WriteRune('_')
			continue
		}
		prevSep = false
		b.WriteRune(r)
	}
	return b.String()
}

// StripEmphasis removes markdown emphasis markers from model output.
// The marketplaces render asterisks literally.
func StripEmphasis(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	return strings.TrimSpace(text)
}
