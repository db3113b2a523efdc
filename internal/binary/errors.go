package binary

import (
	"fmt"
	"io/fs"

	"github.com/cockroachdb/errors"
)

// InstallError reports which installer step failed and on which path.
type InstallError struct {
	Step  Step
	Path  string
	Cause error
}

func (e *InstallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("install %s (%s): %v", e.Path, e.Step, e.Cause)
	}
	return fmt.Sprintf("install %s (%s) failed", e.Path, e.Step)
}

func (e *InstallError) Unwrap() error {
	return e.Cause
}

// isPermission reports whether err is a permission failure.
func isPermission(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
