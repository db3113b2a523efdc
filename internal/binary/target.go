package binary

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-homedir"

	"github.com/vekt-dev/vekt-install/internal/platform"
)

// unixInstallDir is the install directory on Linux and macOS.
const unixInstallDir = "/usr/local/bin"

// BinaryName returns the installed file name for repo on p.
func BinaryName(repo string, p platform.Platform) string {
	if p.IsWindows() {
		return repo + ".exe"
	}
	return repo
}

// NewTarget places the binary for repo in dir.
func NewTarget(dir, repo string, p platform.Platform) Target {
	name := BinaryName(repo, p)
	return Target{
		Dir:        dir,
		BinaryName: name,
		FinalPath:  filepath.Join(dir, name),
	}
}

// DefaultTarget returns the platform default install location.
//   - Windows: %LOCALAPPDATA%\{repo}\{repo}.exe, per-user and writable without elevation
//   - Linux/macOS: /usr/local/bin/{repo}
//
// getenv is consulted for LOCALAPPDATA; when it is empty the conventional
// AppData\Local under the home directory is used.
func DefaultTarget(p platform.Platform, repo string, getenv func(string) string) (Target, error) {
	if !p.IsWindows() {
		return NewTarget(unixInstallDir, repo, p), nil
	}

	base := ""
	if getenv != nil {
		base = getenv("LOCALAPPDATA")
	}
	if base == "" {
		home, err := homedir.Dir()
		if err != nil {
			return Target{}, errors.WithHint(
				errors.Wrap(err, "locate LOCALAPPDATA"),
				"set LOCALAPPDATA or VEKT_INSTALL_INSTALL_DIR",
			)
		}
		base = filepath.Join(home, "AppData", "Local")
	}

	return NewTarget(filepath.Join(base, repo), repo, p), nil
}
