package vertoken

import (
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Version
		ok    bool
	}{
		{
			name:  "dotted",
			input: "1.2.3.4",
			want:  Version{1, 2, 3, 4},
			ok:    true,
		},
		{
			name:  "comma list",
			input: "1,2,3,4",
			want:  Version{1, 2, 3, 4},
			ok:    true,
		},
		{
			name:  "comma list with spaces",
			input: "1, 2, 3, 4",
			want:  Version{1, 2, 3, 4},
			ok:    true,
		},
		{
			name:  "large components",
			input: "10.20.30000.40",
			want:  Version{10, 20, 30000, 40},
			ok:    true,
		},
		{
			name:  "three parts",
			input: "1.2.3",
			ok:    false,
		},
		{
			name:  "five parts",
			input: "1.2.3.4.5",
			ok:    false,
		},
		{
			name:  "wildcard build",
			input: "1.2.*.4",
			ok:    false,
		},
		{
			name:  "non-numeric",
			input: "1.2.beta.4",
			ok:    false,
		},
		{
			name:  "negative component",
			input: "1.2.-3.4",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	v := Version{Major: 1, Minor: 2, Build: 4, Revision: 0}
	if got := v.String(); got != "1.2.4.0" {
		t.Errorf("String() = %q, want %q", got, "1.2.4.0")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	versions := []Version{
		{0, 0, 0, 0},
		{1, 2, 3, 4},
		{2026, 8, 30, 1},
	}
	for _, v := range versions {
		got, ok := ParseNumber(v.String())
		if !ok || got != v {
			t.Errorf("round trip of %+v = %+v, ok=%v", v, got, ok)
		}
	}
}
