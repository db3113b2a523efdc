package shell

import "fmt"

// ShellType is a shell whose profile syntax PathLine knows.
type ShellType string

const (
	ShellBash    ShellType = "bash"
	ShellZsh     ShellType = "zsh"
	ShellFish    ShellType = "fish"
	ShellUnknown ShellType = "unknown"
)

func (s ShellType) String() string {
	return string(s)
}

// IsValid reports whether s is bash, zsh or fish.
func (s ShellType) IsValid() bool {
	return s == ShellBash || s == ShellZsh || s == ShellFish
}

// DetectionResult is what DetectShell found.
type DetectionResult struct {
	Shell  ShellType
	Source string // SourceEnv or SourceParent; empty when nothing was found
	Path   string // shell binary, as reported by Source
}

// Outcome is the result of registering a directory on the search path.
type Outcome int

const (
	// AlreadyPresent means the directory was on the persisted path; nothing was written.
	AlreadyPresent Outcome = iota
	// Added means the directory was appended and persisted.
	Added
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case AlreadyPresent:
		return "already present"
	case Added:
		return "added"
	default:
		return "unknown"
	}
}

// PathError reports a failure reading or persisting the user search path.
type PathError struct {
	Op    string // OpRead, OpPersist or OpAdd
	Cause error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s user PATH: %v", e.Op, e.Cause)
}

func (e *PathError) Unwrap() error {
	return e.Cause
}

// UnsupportedShellError is returned for shells without a known profile file.
type UnsupportedShellError struct {
	Shell string
}

func (e *UnsupportedShellError) Error() string {
	return fmt.Sprintf("no profile file known for shell %q (bash, zsh and fish are)", e.Shell)
}
