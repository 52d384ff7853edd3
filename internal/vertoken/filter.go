package vertoken

import (
	"regexp"
	"strings"
)

// MatchesCustomFilter applies the optional content gate on top of
// IsVersionBearing. With filtering disabled or an empty pattern every file
// passes. The pattern is treated as a regular expression; a pattern that
// fails to compile falls back to a literal substring match.
func MatchesCustomFilter(text, pattern string, enabled bool) bool {
	if !enabled || pattern == "" {
		return true
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return strings.Contains(text, pattern)
	}
	return re.MatchString(text)
}
