package binary

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

// Mover puts a prepared file at its final path, replacing any existing file
// in a single rename.
type Mover interface {
	// Name identifies the mover in logs.
	Name() string

	// Elevated reports whether the mover runs with elevated privileges.
	Elevated() bool

	// Move places src at dst. src is left for the caller to remove.
	Move(ctx context.Context, src, dst string) error
}

// DirectMover moves files with the current user's permissions.
type DirectMover struct{}

// Name returns "direct".
func (DirectMover) Name() string { return "direct" }

// Elevated returns false.
func (DirectMover) Elevated() bool { return false }

// Move renames src onto dst. When they live on different filesystems, src is
// first copied to a staging file next to dst so the final step is still a
// rename.
func (DirectMover) Move(ctx context.Context, src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || isPermission(err) {
		return err
	}

	if filepath.Dir(src) == filepath.Dir(dst) {
		return err
	}

	staging, cerr := copyToStaging(src, dst)
	if cerr != nil {
		return cerr
	}
	if err := os.Rename(staging, dst); err != nil {
		os.Remove(staging)
		return err
	}
	return nil
}

// copyToStaging copies src into a temporary file in dst's directory.
func copyToStaging(src, dst string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".staging-*")
	if err != nil {
		return "", err
	}
	staging := out.Name()

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(staging)
		return "", err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(staging)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(staging)
		return "", err
	}

	if info, err := os.Stat(src); err == nil {
		_ = os.Chmod(staging, info.Mode().Perm())
	}

	return staging, nil
}

// Runner executes an external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner runs commands attached to the terminal so sudo can prompt.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// SudoMover moves files into directories the user cannot write, via sudo.
//
// The file is copied to a staging name inside the target directory, made
// executable, then renamed over the final path, so the replacement is as
// atomic as a direct rename.
type SudoMover struct {
	runner      Runner
	lookPath    func(string) (string, error)
	interactive bool
}

// NewSudoMover creates a mover using the real sudo. sudo runs with -n
// (never prompt) when stdin is not a terminal.
func NewSudoMover() *SudoMover {
	return &SudoMover{
		runner:      execRunner{},
		lookPath:    exec.LookPath,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
}

// NewSudoMoverWithRunner creates a mover with a custom command runner (for testing).
func NewSudoMoverWithRunner(runner Runner, interactive bool) *SudoMover {
	return &SudoMover{
		runner:      runner,
		lookPath:    func(string) (string, error) { return "sudo", nil },
		interactive: interactive,
	}
}

// Name returns "sudo".
func (m *SudoMover) Name() string { return "sudo" }

// Elevated returns true.
func (m *SudoMover) Elevated() bool { return true }

// Available reports whether sudo is on PATH.
func (m *SudoMover) Available() bool {
	_, err := m.lookPath("sudo")
	return err == nil
}

// Move copies src next to dst as root, marks it executable and renames it into place.
func (m *SudoMover) Move(ctx context.Context, src, dst string) error {
	staging := filepath.Join(filepath.Dir(dst), fmt.Sprintf(".%s.vekt-install-%d", filepath.Base(dst), os.Getpid()))

	if err := m.sudo(ctx, "cp", src, staging); err != nil {
		return errors.Wrapf(err, "sudo cp to %s", staging)
	}

	if err := m.sudo(ctx, "chmod", "755", staging); err != nil {
		m.cleanup(staging)
		return errors.Wrapf(err, "sudo chmod %s", staging)
	}

	if err := m.sudo(ctx, "mv", "-f", staging, dst); err != nil {
		m.cleanup(staging)
		return errors.Wrapf(err, "sudo mv to %s", dst)
	}

	return nil
}

func (m *SudoMover) sudo(ctx context.Context, args ...string) error {
	if !m.interactive {
		args = append([]string{"-n"}, args...)
	}
	return m.runner.Run(ctx, "sudo", args...)
}

// cleanup removes a staging file without prompting. Failure is ignored:
// the staging name is hidden and unique per process.
func (m *SudoMover) cleanup(staging string) {
	_ = m.runner.Run(context.Background(), "sudo", "-n", "rm", "-f", staging)
}
