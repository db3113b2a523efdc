package platform

import "fmt"

// Kind classifies why a platform was rejected.
type Kind int

const (
	// KindUnknownOS means the operating system name was not recognized.
	KindUnknownOS Kind = iota
	// KindUnknownArch means the architecture name was not recognized.
	KindUnknownArch
	// KindNotYetSupported means the platform parsed but has no published build.
	KindNotYetSupported
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnknownOS:
		return "unknown-os"
	case KindUnknownArch:
		return "unknown-arch"
	case KindNotYetSupported:
		return "not-yet-supported"
	default:
		return "unknown"
	}
}

// UnsupportedPlatformError is returned by Resolve for hosts without a build.
type UnsupportedPlatformError struct {
	Kind     Kind
	Raw      string   // raw value that was rejected
	Platform Platform // set for KindNotYetSupported
}

func (e *UnsupportedPlatformError) Error() string {
	switch e.Kind {
	case KindUnknownOS:
		return fmt.Sprintf("unsupported operating system: %q", e.Raw)
	case KindUnknownArch:
		return fmt.Sprintf("unsupported architecture: %q", e.Raw)
	default:
		return fmt.Sprintf("%s is not yet supported", e.Platform)
	}
}
