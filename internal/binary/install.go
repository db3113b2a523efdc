package binary

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/vekt-dev/vekt-install/internal/config"
	"github.com/vekt-dev/vekt-install/internal/platform"
)

// executableMode is applied to installed binaries on Linux and macOS.
const executableMode = 0o755

// Installer writes a downloaded binary to its target atomically.
//
// The bytes go to a temporary file first (inside the target directory when
// it is writable, so the final rename never crosses filesystems). Only a
// fully written, executable file is moved onto the final path; readers of
// the final path see either the old binary or the new one.
type Installer struct {
	direct   Mover
	elevated Mover // nil when the platform has no elevation path
	windows  bool
	writable func(dir string) bool
	tempDir  func() string
	onElev   func(dst string)
	logger   config.Logger
}

// NewInstaller creates an installer for binaries targeting p.
// Linux and macOS fall back to sudo for unwritable directories;
// Windows has no elevated mover.
func NewInstaller(p platform.Platform) *Installer {
	i := &Installer{
		direct:   DirectMover{},
		windows:  p.IsWindows(),
		writable: canWrite,
		tempDir:  os.TempDir,
		logger:   config.NopLogger(),
	}

	if !p.IsWindows() {
		if sudo := NewSudoMover(); sudo.Available() {
			i.elevated = sudo
		}
	}

	return i
}

// WithElevatedMover replaces the elevated mover. nil disables elevation.
func (i *Installer) WithElevatedMover(m Mover) *Installer {
	i.elevated = m
	return i
}

// WithWritableCheck replaces the directory writability check.
func (i *Installer) WithWritableCheck(fn func(dir string) bool) *Installer {
	if fn != nil {
		i.writable = fn
	}
	return i
}

// WithTempDir sets the fallback directory for the temporary file.
func (i *Installer) WithTempDir(fn func() string) *Installer {
	if fn != nil {
		i.tempDir = fn
	}
	return i
}

// OnElevate registers a callback invoked right before the elevated mover
// runs, so a notice can be printed ahead of a password prompt.
func (i *Installer) OnElevate(fn func(dst string)) *Installer {
	i.onElev = fn
	return i
}

// WithLogger sets the logger.
func (i *Installer) WithLogger(logger config.Logger) *Installer {
	if logger != nil {
		i.logger = logger
	}
	return i
}

// Install reads src to completion and places it at t.FinalPath.
// Nothing is moved unless src was read without error.
func (i *Installer) Install(ctx context.Context, src io.Reader, t Target) (*InstallResult, error) {
	// 1. Install directory (never elevated)
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return nil, i.stepError(StepCreateDir, t.Dir, err)
	}

	writable := i.writable(t.Dir)

	// 2. Temporary file
	tmp, err := i.createTemp(t, writable)
	if err != nil {
		return nil, &InstallError{Step: StepWrite, Path: t.FinalPath, Cause: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	n, err := io.Copy(tmp, src)
	if err == nil {
		err = ctx.Err()
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, &InstallError{Step: StepWrite, Path: tmpPath, Cause: err}
	}
	i.logger.Debug("wrote temporary file", "path", tmpPath, "bytes", n)

	// 3. Executable bit
	if !i.windows {
		if err := os.Chmod(tmpPath, executableMode); err != nil {
			return nil, &InstallError{Step: StepChmod, Path: tmpPath, Cause: err}
		}
	}

	// 4. Move into place
	replaced := fileExists(t.FinalPath)

	elevated, err := i.move(ctx, tmpPath, t, writable)
	if err != nil {
		return nil, err
	}

	return &InstallResult{
		Path:     t.FinalPath,
		Bytes:    n,
		Elevated: elevated,
		Replaced: replaced,
	}, nil
}

// createTemp creates the temporary file, preferring the target directory.
func (i *Installer) createTemp(t Target, writable bool) (*os.File, error) {
	pattern := "." + t.BinaryName + ".tmp-*"

	if writable {
		f, err := os.CreateTemp(t.Dir, pattern)
		if err == nil {
			return f, nil
		}
		i.logger.Debug("temporary file in install dir failed", "dir", t.Dir, "error", err)
	}

	return os.CreateTemp(i.tempDir(), pattern)
}

// move picks the mover and reports whether elevation was used.
func (i *Installer) move(ctx context.Context, src string, t Target, writable bool) (bool, error) {
	if writable {
		err := i.direct.Move(ctx, src, t.FinalPath)
		if err == nil {
			return false, nil
		}
		if !isPermission(err) {
			return false, &InstallError{Step: StepMove, Path: t.FinalPath, Cause: err}
		}
		i.logger.Debug("direct move denied, trying elevation", "path", t.FinalPath, "error", err)
	}

	if i.elevated == nil {
		return false, i.permissionError(t)
	}

	if i.onElev != nil {
		i.onElev(t.FinalPath)
	}
	if err := i.elevated.Move(ctx, src, t.FinalPath); err != nil {
		return true, &InstallError{Step: StepMove, Path: t.FinalPath, Cause: errors.WithHint(err, "sudo is required to write to "+t.Dir)}
	}

	return true, nil
}

func (i *Installer) permissionError(t Target) error {
	hint := "re-run with sudo, or set VEKT_INSTALL_INSTALL_DIR to a writable directory"
	if i.windows {
		hint = "re-run from an elevated prompt, or set VEKT_INSTALL_INSTALL_DIR to a writable directory"
	}
	return errors.WithHint(
		&InstallError{Step: StepPermission, Path: t.FinalPath, Cause: errors.Newf("%s is not writable", t.Dir)},
		hint,
	)
}

func (i *Installer) stepError(step Step, path string, err error) error {
	ierr := &InstallError{Step: step, Path: path, Cause: err}
	if isPermission(err) {
		return errors.WithHint(ierr, "create "+path+" first, or set VEKT_INSTALL_INSTALL_DIR to a writable directory")
	}
	return ierr
}

// fileExists returns true if path exists and is a regular file
func fileExists(path string) bool {
	info, err := os.Stat(filepath.Clean(path))
	return err == nil && info.Mode().IsRegular()
}
