package vertoken

// Rewrite replaces the numeric value of every recognized token in text with
// newVersion, leaving all surrounding syntax untouched. Resource records keep
// their comma-separated form; everything else stays dotted. Syntaxes absent
// from text are never inserted, and rewriting already-correct text is a
// no-op, so the transform is idempotent.
func Rewrite(text string, newVersion Version) string {
	for _, tok := range tokens {
		value := newVersion.String()
		if tok.commaForm {
			value = newVersion.commas()
		}
		text = tok.pattern.ReplaceAllString(text, "${1}"+value+"${3}")
	}
	return text
}

// TokensIn returns the names of the recognized syntaxes present in text, in
// table order. Used for narration only.
func TokensIn(text string) []string {
	var names []string
	for _, tok := range tokens {
		if tok.pattern.MatchString(text) {
			names = append(names, tok.name)
		}
	}
	return names
}
