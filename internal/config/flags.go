package config

// RawFlags are the increment directives exactly as the user supplied them,
// before precedence is applied.
type RawFlags struct {
	IncrementBuild    bool
	IncrementRevision bool
	DoNotIncrement    bool
	SkipCheckin       bool
	FilterPattern     string
}

// Flags is the resolved, immutable policy for one run. Components receive it
// by value and never consult flag state anywhere else.
type Flags struct {
	IncrementBuild    bool
	IncrementRevision bool
	Checkin           bool
	FilterEnabled     bool
	FilterPattern     string
}

// ResolveFlags applies flag precedence once, up front. DoNotIncrement has the
// highest precedence: it forces both increments off and disables check-in,
// whatever else was requested.
func ResolveFlags(raw RawFlags) Flags {
	flags := Flags{
		IncrementBuild:    raw.IncrementBuild,
		IncrementRevision: raw.IncrementRevision,
		Checkin:           !raw.SkipCheckin,
		FilterEnabled:     raw.FilterPattern != "",
		FilterPattern:     raw.FilterPattern,
	}

	if raw.DoNotIncrement {
		flags.IncrementBuild = false
		flags.IncrementRevision = false
		flags.Checkin = false
	}

	return flags
}
