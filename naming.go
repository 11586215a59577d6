package elemental

import (
	"strings"
	"unicode"
)

// KebabCase converts a type name to kebab case: "HeroSidekick" becomes
// "hero-sidekick" and "HTMLView" becomes "html-view". Spaces and
// underscores become hyphens.
func KebabCase(s string) string {
	runes := []rune(strings.TrimSpace(s))
	var sb strings.Builder
	sb.Grow(len(runes) + 4)

	hyphen := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "-") {
			sb.WriteByte('-')
		}
	}

	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			hyphen()
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				hyphen()
			}
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return strings.TrimSuffix(sb.String(), "-")
}
