// Package scan enumerates candidate version-bearing files under a source
// tree.
package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FirstPassNames are the filenames consulted to locate the authoritative
// current version: the solution-wide shared assembly info and the native
// resource solution info.
var FirstPassNames = []string{
	"SharedAssemblyInfo.cs",
	"SolutionInfo.rc",
}

// SecondPassNames is the broader rewrite set: the first-pass names plus each
// project's own info file and the native resource-definition file.
var SecondPassNames = []string{
	"SharedAssemblyInfo.cs",
	"SolutionInfo.rc",
	"AssemblyInfo.cs",
	"VersionInfo.rc",
}

// Candidate is one enumerated file with its raw text.
type Candidate struct {
	Path string
	Text string
}

// Find walks root recursively and returns every file whose base name matches
// one of names (case-insensitively, matching Windows checkouts), with its
// content loaded. Traversal order is lexical, so results are stable across
// runs.
func Find(root string, names []string) ([]Candidate, error) {
	var candidates []Candidate

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !matchesName(d.Name(), names) {
			return nil
		}
		text, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		candidates = append(candidates, Candidate{Path: p, Text: string(text)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	return candidates, nil
}

func matchesName(name string, names []string) bool {
	for _, n := range names {
		if strings.EqualFold(name, n) {
			return true
		}
	}
	return false
}
