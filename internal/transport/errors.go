package transport

import (
	"fmt"
)

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	// KindNoMechanism means no download mechanism is available on the host.
	KindNoMechanism ErrorKind = iota
	// KindRequestFailed means the selected mechanism could not retrieve the URL.
	KindRequestFailed
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNoMechanism:
		return "no-mechanism"
	case KindRequestFailed:
		return "request-failed"
	default:
		return "unknown"
	}
}

// Error is returned for every transport failure.
type Error struct {
	Kind      ErrorKind
	Mechanism string // name of the mechanism used, empty for KindNoMechanism
	URL       string
	Status    int   // HTTP status for non-2xx responses, 0 otherwise
	Cause     error // underlying error, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindNoMechanism:
		return "no download mechanism available"
	case e.Status != 0:
		return fmt.Sprintf("%s: GET %s: unexpected status %d", e.Mechanism, e.URL, e.Status)
	case e.Cause != nil:
		return fmt.Sprintf("%s: GET %s: %v", e.Mechanism, e.URL, e.Cause)
	default:
		return fmt.Sprintf("%s: GET %s failed", e.Mechanism, e.URL)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}
