//go:build windows

package shell

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const (
	environmentKey   = `Environment`
	pathValueName    = "Path"
	hwndBroadcast    = 0xffff
	wmSettingChange  = 0x001A
	smtoAbortIfHung  = 0x0002
	broadcastTimeout = 5000 // ms
)

var (
	user32                 = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeout = user32.NewProc("SendMessageTimeoutW")
)

// RegistryStore persists the search path in HKCU\Environment\Path.
type RegistryStore struct {
	// valueType remembers the type read so Set preserves REG_EXPAND_SZ.
	valueType uint32
}

// NewRegistryStore creates a store backed by the current user's environment key.
func NewRegistryStore() *RegistryStore {
	return &RegistryStore{valueType: registry.EXPAND_SZ}
}

// DefaultStore returns the registry store.
func DefaultStore() (Store, bool) {
	return NewRegistryStore(), true
}

// Get reads the user Path value. A missing value is an empty path.
func (s *RegistryStore) Get() (string, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, environmentKey, registry.QUERY_VALUE)
	if err != nil {
		return "", errors.Wrap(err, "open HKCU\\Environment")
	}
	defer key.Close()

	value, valueType, err := key.GetStringValue(pathValueName)
	if errors.Is(err, registry.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read Path")
	}

	s.valueType = valueType
	return value, nil
}

// Set writes the user Path value, keeping its original type, and notifies
// running applications so new terminals see the change.
func (s *RegistryStore) Set(value string) error {
	key, err := registry.OpenKey(registry.CURRENT_USER, environmentKey, registry.SET_VALUE)
	if err != nil {
		return errors.Wrap(err, "open HKCU\\Environment")
	}
	defer key.Close()

	if s.valueType == registry.SZ {
		err = key.SetStringValue(pathValueName, value)
	} else {
		err = key.SetExpandStringValue(pathValueName, value)
	}
	if err != nil {
		return errors.Wrap(err, "write Path")
	}

	broadcastEnvironmentChange()
	return nil
}

// broadcastEnvironmentChange sends WM_SETTINGCHANGE("Environment").
// Failure only delays when other programs notice the new value.
func broadcastEnvironmentChange() {
	param, err := windows.UTF16PtrFromString(environmentKey)
	if err != nil {
		return
	}
	var result uintptr
	_, _, _ = procSendMessageTimeout.Call(
		hwndBroadcast,
		wmSettingChange,
		0,
		uintptr(unsafe.Pointer(param)),
		smtoAbortIfHung,
		broadcastTimeout,
		uintptr(unsafe.Pointer(&result)),
	)
}
