package cli

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// promptToken asks for the collection credential when the configured auth
// mode needs one and none was supplied. Refuses to block a non-interactive
// build agent.
func promptToken(collectionURL string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("credential required but stdin is not a terminal; set auth.token in the config file")
	}

	fmt.Fprintf(os.Stderr, "Token for %s: ", collectionURL)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("empty token")
	}
	return string(raw), nil
}
