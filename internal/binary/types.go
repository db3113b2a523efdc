package binary

// Asset identifies a release asset for one platform.
type Asset struct {
	Owner    string
	Repo     string
	FileName string // e.g. "vekt-linux-amd64", "vekt-windows-amd64.exe"
	URL      string // latest-release download URL
}

// Target is where a binary gets installed.
type Target struct {
	Dir        string
	BinaryName string
	FinalPath  string // Dir joined with BinaryName
}

// InstallResult contains information about a completed install
type InstallResult struct {
	Path     string
	Bytes    int64
	Elevated bool // the final move ran through the elevated mover
	Replaced bool // a previous binary existed at Path
}

// Step identifies the installer stage that failed.
type Step int

const (
	// StepCreateDir is creating the install directory
	StepCreateDir Step = iota
	// StepWrite is writing the downloaded bytes to a temporary file
	StepWrite
	// StepChmod is marking the temporary file executable
	StepChmod
	// StepMove is moving the temporary file into place
	StepMove
	// StepPermission means the target is not writable and cannot be elevated
	StepPermission
)

// String returns the string representation of the step
func (s Step) String() string {
	switch s {
	case StepCreateDir:
		return "create directory"
	case StepWrite:
		return "write"
	case StepChmod:
		return "chmod"
	case StepMove:
		return "move"
	case StepPermission:
		return "permission"
	default:
		return "unknown"
	}
}
