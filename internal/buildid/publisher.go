// Package buildid updates the running build's displayed identifier and emits
// the logging commands the build host consumes from standard output.
package buildid

import (
	"fmt"
	"io"
	"regexp"

	"github.com/voice4net/versync/internal/vertoken"
)

// OutputVariable is the pipeline variable carrying the new version to
// downstream stages.
const OutputVariable = "VersionNumber"

var numberRun = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

// Publisher emits build-host logging commands to Out. Out is typically
// os.Stdout; log narration must go elsewhere so the host parser only ever
// sees well-formed command lines.
type Publisher struct {
	Out io.Writer
}

// Publish replaces the first 4-part numeric run in the build identifier with
// newVersion and emits two commands: one adopting the updated identifier as
// the displayed build number, one exposing newVersion as an output variable.
// An identifier with no numeric run is adopted unchanged; the commands are
// still emitted.
func (p Publisher) Publish(buildNumber string, newVersion vertoken.Version) (string, error) {
	updated := buildNumber
	if loc := numberRun.FindStringIndex(buildNumber); loc != nil {
		updated = buildNumber[:loc[0]] + newVersion.String() + buildNumber[loc[1]:]
	}

	if _, err := fmt.Fprintf(p.Out, "##vso[build.updatebuildnumber]%s\n", updated); err != nil {
		return updated, fmt.Errorf("publish build number: %w", err)
	}
	if _, err := fmt.Fprintf(p.Out, "##vso[task.setvariable variable=%s;]%s\n", OutputVariable, newVersion); err != nil {
		return updated, fmt.Errorf("publish output variable: %w", err)
	}
	return updated, nil
}
