package vertoken

import "regexp"

// token describes one recognized version syntax. The pattern captures three
// groups: the literal prefix, the numeric value, and the literal suffix, so a
// rewrite can splice in a new value without touching surrounding text.
type token struct {
	// name identifies the syntax in narration and debug output.
	name string

	pattern *regexp.Regexp

	// commaForm is set for the native resource records, which carry the
	// version as a comma-separated numeric list instead of a dotted string.
	commaForm bool

	// authoritative tokens participate in current-version extraction;
	// the rest are rewrite-only.
	authoritative bool
}

const (
	dotted = `(\d+\.\d+\.\d+\.\d+)`
	listed = `(\d+\s*,\s*\d+\s*,\s*\d+\s*,\s*\d+)`
)

// tokens is the ordered syntax table. Order matters for extraction:
// AssemblyVersion outranks AssemblyFileVersion, which outranks
// AssemblyInformationalVersion, because a file routinely carries several
// differing tokens and only one decides the current version.
var tokens = []token{
	{
		name:          "AssemblyVersion",
		pattern:       regexp.MustCompile(`(AssemblyVersion\s*\(\s*")` + dotted + `("\s*\))`),
		authoritative: true,
	},
	{
		name:          "AssemblyFileVersion",
		pattern:       regexp.MustCompile(`(AssemblyFileVersion\s*\(\s*")` + dotted + `("\s*\))`),
		authoritative: true,
	},
	{
		name:          "AssemblyInformationalVersion",
		pattern:       regexp.MustCompile(`(AssemblyInformationalVersion\s*\(\s*")` + dotted + `("\s*\))`),
		authoritative: true,
	},
	{
		name:    "FileVersion string",
		pattern: regexp.MustCompile(`("FileVersion"\s*,\s*")` + dotted + `(")`),
	},
	{
		name:    "ProductVersion string",
		pattern: regexp.MustCompile(`("ProductVersion"\s*,\s*")` + dotted + `(")`),
	},
	{
		name:      "FILEVERSION record",
		pattern:   regexp.MustCompile(`(\bFILEVERSION\s+)` + listed + `()`),
		commaForm: true,
	},
	{
		name:      "PRODUCTVERSION record",
		pattern:   regexp.MustCompile(`(\bPRODUCTVERSION\s+)` + listed + `()`),
		commaForm: true,
	},
}
