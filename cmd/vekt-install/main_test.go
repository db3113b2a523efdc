package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vekt-dev/vekt-install/internal/platform"
	"github.com/vekt-dev/vekt-install/internal/shell"
	"github.com/vekt-dev/vekt-install/internal/testutil"
)

// newAssetServer serves body for every asset path and 404 elsewhere.
func newAssetServer(t *testing.T, body []byte) (*httptest.Server, *int) {
	t.Helper()
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if !strings.Contains(r.URL.Path, "/releases/latest/download/") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func setDeps(t *testing.T, deps runDeps) {
	t.Helper()
	saved := defaultDeps
	defaultDeps = deps
	t.Cleanup(func() { defaultDeps = saved })
}

func TestExecute_InstallsLinuxBinary(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	body := bytes.Repeat([]byte("x"), 2048)
	srv, requests := newAssetServer(t, body)

	t.Setenv("VEKT_INSTALL_BASE_URL", srv.URL)
	t.Setenv("VEKT_INSTALL_OS", "Linux")
	t.Setenv("VEKT_INSTALL_ARCH", "x86_64")
	t.Setenv("VEKT_INSTALL_INSTALL_DIR", env.BinDir)

	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), []string{"vekt-install"}, &stdout, &stderr); err != nil {
		t.Fatalf("execute() error = %v\nstderr: %s", err, stderr.String())
	}

	got, err := os.ReadFile(filepath.Join(env.BinDir, "vekt"))
	if err != nil {
		t.Fatalf("installed binary missing: %v", err)
	}
	if len(got) != len(body) {
		t.Errorf("installed %d bytes, want %d", len(got), len(body))
	}
	if *requests != 1 {
		t.Errorf("requests = %d, want 1", *requests)
	}

	out := stdout.String()
	for _, want := range []string{
		"Detected linux/amd64",
		"vekt-linux-amd64",
		"Downloaded 2.0 kB",
		"Run 'vekt --help' to get started",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestExecute_ConfigFile(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	srv, _ := newAssetServer(t, []byte("bin"))

	installDir := filepath.Join(env.Home, "tools")
	testutil.WriteConfig(t, env.Home, `install = {
  install_dir = "`+filepath.ToSlash(installDir)+`",
  base_url = "`+srv.URL+`",
}`)
	t.Setenv("VEKT_INSTALL_OS", "Darwin")
	t.Setenv("VEKT_INSTALL_ARCH", "arm64")

	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), []string{"vekt-install"}, &stdout, &stderr); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(installDir, "vekt")); err != nil {
		t.Errorf("installed binary missing: %v", err)
	}
	if !strings.Contains(stdout.String(), "vekt-macos-arm64") {
		t.Errorf("output does not name the macos asset:\n%s", stdout.String())
	}
}

func TestExecute_WindowsRegistersPath(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	srv, _ := newAssetServer(t, []byte("MZ"))
	store := shell.NewMemoryStore(`C:\Windows`)
	setDeps(t, runDeps{pathStore: store})
	t.Setenv("PATH", os.Getenv("PATH"))

	t.Setenv("VEKT_INSTALL_BASE_URL", srv.URL)
	t.Setenv("VEKT_INSTALL_OS", "Windows")
	t.Setenv("VEKT_INSTALL_ARCH", "AMD64")
	t.Setenv("VEKT_INSTALL_INSTALL_DIR", env.BinDir)

	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), []string{"vekt-install"}, &stdout, &stderr); err != nil {
		t.Fatalf("execute() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(env.BinDir, "vekt.exe")); err != nil {
		t.Errorf("installed binary missing: %v", err)
	}
	if store.Writes != 1 || !strings.HasSuffix(store.Value, ";"+env.BinDir) {
		t.Errorf("store = %q (%d writes)", store.Value, store.Writes)
	}
	if !strings.Contains(stdout.String(), "Added "+env.BinDir) {
		t.Errorf("output missing PATH notice:\n%s", stdout.String())
	}

	// A second run finds the entry and leaves the store alone.
	stdout.Reset()
	if err := execute(context.Background(), []string{"vekt-install"}, &stdout, &stderr); err != nil {
		t.Fatalf("second execute() error = %v", err)
	}
	if store.Writes != 1 {
		t.Errorf("Writes = %d after second run, want 1", store.Writes)
	}
	if !strings.Contains(stdout.String(), "already on your PATH") {
		t.Errorf("output missing already-present notice:\n%s", stdout.String())
	}
}

func TestRunMain_UnsupportedPlatform(t *testing.T) {
	testutil.SetupTestEnv(t)
	srv, requests := newAssetServer(t, []byte("bin"))

	t.Setenv("VEKT_INSTALL_BASE_URL", srv.URL)
	t.Setenv("VEKT_INSTALL_OS", "Linux")
	t.Setenv("VEKT_INSTALL_ARCH", "aarch64")

	var stdout, stderr bytes.Buffer
	code := -1
	runMain([]string{"vekt-install"}, &stdout, &stderr, func(c int) { code = c })

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if *requests != 0 {
		t.Errorf("requests = %d, want 0", *requests)
	}
	if !strings.Contains(stderr.String(), "Error:") || !strings.Contains(stderr.String(), "not yet supported") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr has no hint: %q", stderr.String())
	}
}

func TestRunMain_DownloadFailure(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	t.Setenv("VEKT_INSTALL_BASE_URL", srv.URL)
	t.Setenv("VEKT_INSTALL_OS", "linux")
	t.Setenv("VEKT_INSTALL_ARCH", "amd64")
	t.Setenv("VEKT_INSTALL_INSTALL_DIR", env.BinDir)

	var stdout, stderr bytes.Buffer
	code := -1
	runMain([]string{"vekt-install"}, &stdout, &stderr, func(c int) { code = c })

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "404") {
		t.Errorf("stderr = %q, want status code", stderr.String())
	}
	if entries, _ := os.ReadDir(env.BinDir); len(entries) != 0 {
		t.Errorf("install dir = %v, want empty", entries)
	}
}

func TestExecute_InvalidConfig(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Setenv("VEKT_INSTALL_TRANSPORTS", "ftp")

	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), []string{"vekt-install"}, &stdout, &stderr); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestExecute_RejectsArguments(t *testing.T) {
	testutil.SetupTestEnv(t)

	var stdout, stderr bytes.Buffer
	err := execute(context.Background(), []string{"vekt-install", "extra"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestExecute_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := execute(context.Background(), []string{"vekt-install", "--version"}, &stdout, &stderr); err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestConsoleReporter(t *testing.T) {
	var out bytes.Buffer
	r := newConsoleReporter(&out)

	r.Platform(&platform.Host{Distro: "ubuntu", Version: "24.04"}, platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64})
	r.Elevating("/usr/local/bin/vekt")
	r.PathHint("/opt/bin is not on your PATH")

	text := out.String()
	for _, want := range []string{"linux/amd64 (ubuntu 24.04)", "sudo", "/opt/bin is not on your PATH"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestConsoleReporter_Progress(t *testing.T) {
	tests := []struct {
		name      string
		tty       bool
		wantDraws int
	}{
		{"terminal", true, 2},
		{"pipe", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := newConsoleReporter(&out)
			r.tty = tt.tty

			for _, total := range []int64{1024, progressStep, progressStep + 1, 3 * progressStep} {
				r.Progress(total)
			}
			r.Downloaded(3 * progressStep)

			text := out.String()
			if n := strings.Count(text, "received"); n != tt.wantDraws {
				t.Errorf("drew progress %d times, want %d:\n%q", n, tt.wantDraws, text)
			}
			if tt.tty && !strings.Contains(text, "\r  786 kB received") {
				t.Errorf("output missing final counter:\n%q", text)
			}
			if !strings.HasSuffix(text, "Downloaded 786 kB\n") {
				t.Errorf("output = %q, want downloaded summary last", text)
			}
			if last := text[strings.LastIndex(text, "\r")+1:]; tt.tty && strings.Contains(last, "received") {
				t.Errorf("progress line not cleared before summary: %q", text)
			}
		})
	}
}
