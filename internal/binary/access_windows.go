//go:build windows

package binary

import "os"

// canWrite reports whether the current user may create files in dir.
// ACLs make mode bits meaningless on Windows, so a probe file is created.
func canWrite(dir string) bool {
	f, err := os.CreateTemp(dir, ".vekt-install-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
