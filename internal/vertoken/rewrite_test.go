package vertoken

import (
	"strings"
	"testing"
)

func TestRewriteAssemblyInfo(t *testing.T) {
	got := Rewrite(sampleAssemblyInfo, Version{1, 2, 4, 0})

	for _, want := range []string{
		`[assembly: AssemblyVersion("1.2.4.0")]`,
		`[assembly: AssemblyFileVersion("1.2.4.0")]`,
		`[assembly: AssemblyInformationalVersion("1.2.4.0")]`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rewritten text missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, `AssemblyTitle("Voice4Net.CallRouter")`) {
		t.Errorf("rewrite touched unrelated attribute:\n%s", got)
	}
}

func TestRewriteResourceFile(t *testing.T) {
	got := Rewrite(sampleResource, Version{1, 2, 4, 0})

	for _, want := range []string{
		"FILEVERSION 1,2,4,0",
		"PRODUCTVERSION 1,2,4,0",
		`VALUE "FileVersion", "1.2.4.0"`,
		`VALUE "ProductVersion", "1.2.4.0"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("rewritten text missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "FILEFLAGSMASK 0x3fL") {
		t.Errorf("rewrite touched unrelated record:\n%s", got)
	}
}

func TestRewriteSpacedResourceRecord(t *testing.T) {
	got := Rewrite("FILEVERSION 1, 2, 3, 4\n", Version{1, 2, 4, 0})
	if got != "FILEVERSION 1,2,4,0\n" {
		t.Errorf("Rewrite() = %q", got)
	}
}

func TestRewriteIdempotent(t *testing.T) {
	v := Version{3, 1, 4, 1}
	texts := []string{
		sampleAssemblyInfo,
		sampleResource,
		"no tokens at all\n",
		"",
	}
	for _, text := range texts {
		once := Rewrite(text, v)
		twice := Rewrite(once, v)
		if once != twice {
			t.Errorf("Rewrite not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestRewriteLeavesTokenFreeTextAlone(t *testing.T) {
	text := "// release notes reference 1.2.3.4 in prose\nconst version = \"1.2.3.4\"\n"
	if got := Rewrite(text, Version{9, 9, 9, 9}); got != text {
		t.Errorf("Rewrite altered text outside recognized tokens:\n%q", got)
	}
}

func TestRewriteDoesNotInsertMissingTokens(t *testing.T) {
	text := `[assembly: AssemblyVersion("1.0.0.0")]` + "\n"
	got := Rewrite(text, Version{2, 0, 0, 0})
	if strings.Contains(got, "AssemblyFileVersion") || strings.Contains(got, "FILEVERSION") {
		t.Errorf("Rewrite inserted tokens that were absent:\n%s", got)
	}
}

func TestTokensIn(t *testing.T) {
	names := TokensIn(sampleResource)
	want := []string{
		"FileVersion string",
		"ProductVersion string",
		"FILEVERSION record",
		"PRODUCTVERSION record",
	}
	if len(names) != len(want) {
		t.Fatalf("TokensIn() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("TokensIn()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
