package announce

import "strings"

// NormalizeDate canonicalizes a source date string to YYYY-MM-DD.
//
// Everything that is not a digit or hyphen is stripped (slashes, dots,
// whitespace). An 8-digit remainder is reformatted; anything else comes back
// stripped but otherwise as-is, so callers must tolerate malformed output.
func NormalizeDate(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if len(cleaned) == 8 && isDigits(cleaned) {
		return cleaned[:4] + "-" + cleaned[4:6] + "-" + cleaned[6:8]
	}
	return cleaned
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
