package shell

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vekt-dev/vekt-install/internal/config"
)

// Registrar makes a directory reachable through the user's search path.
//
// The persisted value lives behind a Store (the registry on Windows). The
// current process PATH is updated too, so the installed binary resolves
// before the user opens a new terminal.
type Registrar struct {
	store   Store
	windows bool
	getenv  func(string) string
	setenv  func(string, string) error
	logger  config.Logger
}

// NewRegistrar creates a registrar over store. windows selects ';' as the
// separator and case-insensitive comparison.
func NewRegistrar(store Store, windows bool) *Registrar {
	return &Registrar{
		store:   store,
		windows: windows,
		getenv:  os.Getenv,
		setenv:  os.Setenv,
		logger:  config.NopLogger(),
	}
}

// WithProcessEnv replaces the process environment accessors.
func (r *Registrar) WithProcessEnv(getenv func(string) string, setenv func(string, string) error) *Registrar {
	if getenv != nil {
		r.getenv = getenv
	}
	if setenv != nil {
		r.setenv = setenv
	}
	return r
}

// WithLogger sets the logger.
func (r *Registrar) WithLogger(logger config.Logger) *Registrar {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Register ensures dir is on the persisted search path.
// It returns AlreadyPresent without writing when an equivalent entry exists,
// otherwise appends dir as the last entry and returns Added.
// A dir that is blank or contains the list separator cannot be stored as a
// single entry and is rejected with a PathError.
func (r *Registrar) Register(dir string) (Outcome, error) {
	if strings.TrimSpace(dir) == "" {
		return AlreadyPresent, &PathError{Op: OpAdd, Cause: errors.New("directory is empty")}
	}
	if sep := listSeparator(r.windows); strings.Contains(dir, sep) {
		return AlreadyPresent, &PathError{Op: OpAdd, Cause: errors.Newf("%q contains the list separator %q", dir, sep)}
	}

	current, err := r.store.Get()
	if err != nil {
		return AlreadyPresent, &PathError{Op: OpRead, Cause: err}
	}

	if containsDir(current, dir, r.windows, r.getenv) {
		r.logger.Debug("directory already on PATH", "dir", dir)
		return AlreadyPresent, nil
	}

	if err := r.store.Set(AppendPath(current, dir, r.windows)); err != nil {
		return AlreadyPresent, &PathError{Op: OpPersist, Cause: err}
	}

	// The persisted change is what matters; a process-level failure only
	// means this run cannot resolve the binary by name.
	processPath := r.getenv("PATH")
	if !containsDir(processPath, dir, r.windows, r.getenv) {
		if err := r.setenv("PATH", AppendPath(processPath, dir, r.windows)); err != nil {
			r.logger.Warn("failed to update process PATH", "error", err)
		}
	}

	r.logger.Debug("directory added to PATH", "dir", dir)
	return Added, nil
}
