package shell

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"
)

// GetRCFilePath returns the path to the shell's RC file
func GetRCFilePath(shell ShellType) (string, error) {
	if !shell.IsValid() {
		return "", &UnsupportedShellError{Shell: shell.String()}
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "get home directory")
	}

	return rcFileIn(homeDir, shell), nil
}

func rcFileIn(homeDir string, shell ShellType) string {
	switch shell {
	case ShellZsh:
		return filepath.Join(homeDir, ".zshrc")
	case ShellFish:
		return filepath.Join(homeDir, ".config", "fish", "config.fish")
	default:
		return filepath.Join(homeDir, ".bashrc")
	}
}

// PathLine returns the line that adds dir to the search path in shell's syntax.
func PathLine(shell ShellType, dir string) string {
	if shell == ShellFish {
		return fmt.Sprintf("fish_add_path %s", dir)
	}
	return fmt.Sprintf(`export PATH="$PATH:%s"`, dir)
}

// PathHint returns advice for adding dir to the search path, or "" when
// pathEnv already contains it. No file is modified.
func PathHint(dir, pathEnv string, detection *DetectionResult, homeDir string) string {
	if ContainsDir(pathEnv, dir, false) {
		return ""
	}

	if detection == nil || !detection.Shell.IsValid() || homeDir == "" {
		return fmt.Sprintf("%s is not on your PATH; add it to your shell profile", dir)
	}

	return fmt.Sprintf("%s is not on your PATH; add this line to %s:\n    %s",
		dir, rcFileIn(homeDir, detection.Shell), PathLine(detection.Shell, dir))
}

// CurrentPathHint is PathHint for the running process and the detected shell.
func CurrentPathHint(dir, pathEnv string) string {
	detection := DetectShell()
	home, err := homedir.Dir()
	if err != nil {
		home = ""
	}
	return PathHint(dir, pathEnv, detection, home)
}
