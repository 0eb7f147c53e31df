package utils

import (
	"regexp"
	"strings"
)

// NormalizeCode uppercases a redemption code and trims surrounding
// whitespace. All lookups go through the normalized form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidCodeFormat checks that a code matches <PREFIX>-<suffix> where the
// suffix is at least 4 alphanumeric characters. The timestamp fallback
// codes are longer but still match.
func IsValidCodeFormat(prefix, code string) bool {
	re := regexp.MustCompile(`^` + regexp.QuoteMeta(strings.ToUpper(prefix)) + `-[A-Z0-9]{4,}$`)
	return re.MatchString(NormalizeCode(code))
}

// LooksLikeCode reports whether free text is probably a redemption code,
// so the business bot can short-circuit into the verification flow.
func LooksLikeCode(prefix, text string) bool {
	if text == "" {
		return false
	}
	normalized := NormalizeCode(text)
	prefix = strings.ToUpper(prefix)
	return strings.HasPrefix(normalized, prefix+"-") || strings.HasPrefix(normalized, prefix)
}
