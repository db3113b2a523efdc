package transport

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// waitDelay bounds how long Close waits for output pipes held open by
// grandchildren of a killed command.
const waitDelay = 2 * time.Second

// LookPathFunc resolves a command name to an executable path.
type LookPathFunc func(file string) (string, error)

// CommandFetcher downloads by running an external program that writes the
// response body to stdout.
type CommandFetcher struct {
	name     string
	program  string
	args     []string
	lookPath LookPathFunc
}

// NewCommandFetcher creates a fetcher running program with args followed by the URL.
func NewCommandFetcher(name, program string, args ...string) *CommandFetcher {
	return &CommandFetcher{
		name:     name,
		program:  program,
		args:     args,
		lookPath: exec.LookPath,
	}
}

// NewCurlFetcher runs "curl -fsSL <url>". -f turns HTTP errors into a non-zero exit.
func NewCurlFetcher() *CommandFetcher {
	return NewCommandFetcher(NameCurl, "curl", "-fsSL")
}

// NewWgetFetcher runs "wget -q -O - <url>".
func NewWgetFetcher() *CommandFetcher {
	return NewCommandFetcher(NameWget, "wget", "-q", "-O", "-")
}

// WithLookPath replaces the function used to locate the program.
func (f *CommandFetcher) WithLookPath(fn LookPathFunc) *CommandFetcher {
	if fn != nil {
		f.lookPath = fn
	}
	return f
}

// Name returns the mechanism name.
func (f *CommandFetcher) Name() string { return f.name }

// Available reports whether the program is on PATH.
func (f *CommandFetcher) Available() bool {
	_, err := f.lookPath(f.program)
	return err == nil
}

// Fetch starts the program and streams its stdout.
func (f *CommandFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	path, err := f.lookPath(f.program)
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Mechanism: f.name, URL: url, Cause: err}
	}

	args := append(append([]string{}, f.args...), url)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &Error{Kind: KindRequestFailed, Mechanism: f.name, URL: url, Cause: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &Error{Kind: KindRequestFailed, Mechanism: f.name, URL: url, Cause: err}
	}

	return &commandReader{
		cmd:       cmd,
		stdout:    stdout,
		stderr:    &stderr,
		mechanism: f.name,
		url:       url,
	}, nil
}

// commandReader reads a command's stdout and reports its exit status at EOF.
type commandReader struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	stderr    *bytes.Buffer
	mechanism string
	url       string
	done      bool
	waitErr   error
}

func (r *commandReader) Read(p []byte) (int, error) {
	if r.done {
		if r.waitErr != nil {
			return 0, r.waitErr
		}
		return 0, io.EOF
	}

	n, err := r.stdout.Read(p)
	if err == io.EOF {
		r.finish()
		if r.waitErr != nil {
			return n, r.waitErr
		}
	}
	return n, err
}

// finish waits for the command once and records a failure, if any.
func (r *commandReader) finish() {
	if r.done {
		return
	}
	r.done = true

	if err := r.cmd.Wait(); err != nil {
		cause := err
		if msg := strings.TrimSpace(r.stderr.String()); msg != "" {
			cause = errors.Wrap(err, msg)
		}
		r.waitErr = &Error{Kind: KindRequestFailed, Mechanism: r.mechanism, URL: r.url, Cause: cause}
	}
}

// Close stops the command if it is still running and releases its resources.
func (r *commandReader) Close() error {
	if r.done {
		return nil
	}
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	r.stdout.Close()
	r.done = true
	_ = r.cmd.Wait()
	return nil
}
