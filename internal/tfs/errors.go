package tfs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrItemNotFound indicates a server path that does not exist in the
// collection.
var ErrItemNotFound = errors.New("item not found")

// ErrCheckinRejected indicates the server refused the changeset submission.
// A rejected check-in is fatal to the run; nothing was committed.
var ErrCheckinRejected = errors.New("check-in rejected")

// apiError carries the status and server message of a failed REST call.
type apiError struct {
	Status  int
	Method  string
	Path    string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// IsNotFound checks if an error indicates a missing server item or
// workspace.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrItemNotFound) {
		return true
	}
	var ae *apiError
	if errors.As(err, &ae) && ae.Status == 404 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}
