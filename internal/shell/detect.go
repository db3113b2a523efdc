package shell

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// Where a shell was found.
const (
	SourceEnv    = "$SHELL"
	SourceParent = "parent process"
)

// DetectShell names the user's interactive shell. $SHELL wins; the parent
// process is consulted when $SHELL is unset or names an unsupported shell.
// Shell is ShellUnknown when neither source helps.
func DetectShell() *DetectionResult {
	return detectShell(os.Getenv, os.Getppid())
}

func detectShell(getenv func(string) string, ppid int) *DetectionResult {
	if p := getenv("SHELL"); p != "" {
		if s := ShellFromPath(p); s.IsValid() {
			return &DetectionResult{Shell: s, Source: SourceEnv, Path: p}
		}
	}

	if s, p := parentShell(ppid); s.IsValid() {
		return &DetectionResult{Shell: s, Source: SourceParent, Path: p}
	}

	return &DetectionResult{Shell: ShellUnknown}
}

// ShellFromPath maps a shell binary path or process name to a ShellType.
// Login shells ("-zsh") and Windows executables ("bash.exe") are accepted.
func ShellFromPath(p string) ShellType {
	name := strings.ToLower(filepath.Base(p))
	name = strings.TrimSuffix(strings.TrimPrefix(name, "-"), ".exe")

	if s := ShellType(name); s.IsValid() {
		return s
	}
	return ShellUnknown
}

// parentShell asks gopsutil for the name and executable of process ppid.
func parentShell(ppid int) (ShellType, string) {
	if ppid <= 0 {
		return ShellUnknown, ""
	}

	proc, err := process.NewProcess(int32(ppid))
	if err != nil {
		return ShellUnknown, ""
	}
	name, err := proc.Name()
	if err != nil {
		return ShellUnknown, ""
	}

	if exe, err := proc.Exe(); err == nil && exe != "" {
		return ShellFromPath(name), exe
	}
	return ShellFromPath(name), name
}
