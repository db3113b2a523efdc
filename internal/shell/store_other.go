//go:build !windows

package shell

// DefaultStore reports that no persisted user search path exists outside
// Windows; shell profiles own PATH there.
func DefaultStore() (Store, bool) {
	return nil, false
}
