package vertoken

// Extract scans text for the current version. Authoritative syntaxes are
// tried in table order and the first hit wins; a file that carries both an
// AssemblyVersion and a differing AssemblyFileVersion resolves to the
// AssemblyVersion. Text with no recognized token reports found=false.
func Extract(text string) (Version, bool) {
	for _, tok := range tokens {
		if !tok.authoritative {
			continue
		}
		m := tok.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := ParseNumber(m[2]); ok {
			return v, true
		}
	}
	return Version{}, false
}

// IsVersionBearing reports whether any of the recognized syntaxes appears in
// text with a well-formed 4-part numeric value.
func IsVersionBearing(text string) bool {
	for _, tok := range tokens {
		m := tok.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if _, ok := ParseNumber(m[2]); ok {
			return true
		}
	}
	return false
}
