package fetch

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
)

var (
	panIDPattern     = regexp.MustCompile(`panId=([^&]+)`)
	quotedNumPattern = regexp.MustCompile(`['"]([0-9]+)['"]`)
)

// extractID pulls a stable identifier out of a row's link target, in priority
// order: the panId query parameter, then the first quoted numeric token
// (covers javascript: navigation handlers), and finally the first 16 hex
// characters of the title's MD5, so every row yields a non-empty,
// deterministic id even with no extractable identifier.
func extractID(href, title string) string {
	if href != "" {
		if m := panIDPattern.FindStringSubmatch(href); m != nil {
			return m[1]
		}
		if m := quotedNumPattern.FindStringSubmatch(href); m != nil {
			return m[1]
		}
	}
	sum := md5.Sum([]byte(title))
	return hex.EncodeToString(sum[:])[:16]
}
