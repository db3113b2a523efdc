// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
)

// envPrefix matches the installer's configuration variables.
const envPrefix = "VEKT_INSTALL_"

// Env describes the isolated directories created by SetupTestEnv.
type Env struct {
	Home         string // fake home directory
	LocalAppData string // fake %LOCALAPPDATA%
	BinDir       string // empty directory suitable as an install target
}

// SetupTestEnv isolates a test from the user's real environment.
// This ensures tests never interfere with:
// - The user's installed vekt binary
// - ~/.config/vekt/install.lua
// - VEKT_INSTALL_* variables set in the developer's shell
//
// Every variable is restored by the testing framework when the test ends,
// and all directories live under t.TempDir().
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := Env{
		Home:         filepath.Join(tmpDir, "home"),
		LocalAppData: filepath.Join(tmpDir, "localappdata"),
		BinDir:       filepath.Join(tmpDir, "bin"),
	}

	// Drop any configuration inherited from the developer's shell.
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, envPrefix) {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}

	t.Setenv("HOME", env.Home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", env.Home)
	}
	t.Setenv("LOCALAPPDATA", env.LocalAppData)

	// go-homedir caches the first lookup.
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	for _, dir := range []string{env.Home, env.LocalAppData, env.BinDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return env
}

// WriteConfig writes a Lua config file at the default location under home.
func WriteConfig(t *testing.T, home, content string) string {
	t.Helper()

	path := filepath.Join(home, ".config", "vekt", "install.lua")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return path
}
