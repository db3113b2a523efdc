// Package lock serializes installs of the same target across processes.
package lock

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v4/process"
)

// StaleAfter is the age after which a lock is ignored even if its owner
// still appears to be running.
const StaleAfter = 10 * time.Minute

// ErrLocked means another installer holds the lock for the same target.
var ErrLocked = errors.New("another vekt-install is writing the same binary")

// Lock is an exclusive, file-based install lock.
type Lock struct {
	path string
	file *os.File
}

// FileName returns the lock file name for a target path.
func FileName(target string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(filepath.Clean(target)))
	return fmt.Sprintf("vekt-install-%08x.lock", h.Sum32())
}

// Acquire takes the lock for target inside dir. A lock left behind by a
// process that no longer exists, or older than StaleAfter, is taken over.
func Acquire(ctx context.Context, dir, target string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create lock directory")
	}

	path := filepath.Join(dir, FileName(target))

	file, err := create(path)
	if errors.Is(err, os.ErrExist) {
		if !isStale(ctx, path) {
			return nil, errors.WithHint(ErrLocked, "wait for the other install to finish, or remove "+path)
		}
		os.Remove(path)
		file, err = create(path)
		if errors.Is(err, os.ErrExist) {
			return nil, ErrLocked
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "create lock file")
	}

	data := fmt.Sprintf("pid=%d\ntarget=%s\ntimestamp=%s\n", os.Getpid(), target, time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(data); err != nil {
		file.Close()
		os.Remove(path)
		return nil, errors.Wrap(err, "write lock file")
	}

	return &Lock{path: path, file: file}, nil
}

func create(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release removes the lock. Calling it more than once is harmless.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path == "" {
		return nil
	}

	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove lock file")
	}
	return nil
}

// isStale reports whether the lock at path can be taken over.
func isStale(ctx context.Context, path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > StaleAfter {
		return true
	}

	pid, ok := ownerPID(path)
	if !ok {
		return false
	}
	exists, err := process.PidExistsWithContext(ctx, pid)
	return err == nil && !exists
}

// ownerPID reads the pid= line of a lock file.
func ownerPID(path string) (int32, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	for _, line := range strings.Split(string(data), "\n") {
		value, found := strings.CutPrefix(line, "pid=")
		if !found {
			continue
		}
		pid, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
		if err != nil || pid <= 0 {
			return 0, false
		}
		return int32(pid), true
	}
	return 0, false
}
