package browser

import (
	"errors"
	"fmt"
)

// ConnectionError indicates the remote debugging endpoint could not be
// attached to, or that no debuggable target was found there. It is
// fatal to the current run; the engine does not retry attachment.
type ConnectionError struct {
	Endpoint string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot attach to browser at %s: %v", e.Endpoint, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ErrSessionLost indicates the underlying devtools connection has
// dropped after a successful attach.
var ErrSessionLost = errors.New("browser session lost")

// ErrSessionBusy indicates a second workflow run tried to use a session
// handle that is already owned by an in-flight run.
var ErrSessionBusy = errors.New("browser session already in use by another run")
