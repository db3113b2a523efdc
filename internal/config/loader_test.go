package config

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/vekt-dev/vekt-install/internal/platform"
	"github.com/vekt-dev/vekt-install/internal/testutil"
)

// staticDetector reports a fixed host.
type staticDetector struct {
	host platform.Host
}

func (d staticDetector) Detect(ctx context.Context) (*platform.Host, error) {
	h := d.host
	return &h, nil
}

var linuxDetector = staticDetector{host: platform.Host{RawOS: "Linux", RawArch: "x86_64", Distro: "ubuntu", Family: platform.FamilyDebian}}

func TestLoader_Defaults(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	cfg, err := NewLoaderWithHome(env.Home, linuxDetector).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoader_LuaFile(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	path := testutil.WriteConfig(t, env.Home, `
		install = {
			owner = "acme",
			base_url = "https://ghe.example.com/",
			transports = { "curl", "http" },
			install_dir = platform.when(platform.is_linux, "~/bin"),
		}
	`)

	cfg, err := NewLoaderWithHome(env.Home, linuxDetector).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Owner != "acme" || cfg.Repo != DefaultRepo {
		t.Errorf("Owner/Repo = %q/%q", cfg.Owner, cfg.Repo)
	}
	if cfg.BaseURL != "https://ghe.example.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if !reflect.DeepEqual(cfg.Transports, []string{"curl", "http"}) {
		t.Errorf("Transports = %v", cfg.Transports)
	}
	if want := filepath.Join(env.Home, "bin"); cfg.InstallDir != want {
		t.Errorf("InstallDir = %q, want %q", cfg.InstallDir, want)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	testutil.WriteConfig(t, env.Home, `install = { owner = "from-file", repo = "from-file", debug = false }`)

	t.Setenv("VEKT_INSTALL_OWNER", "from-env")
	t.Setenv("VEKT_INSTALL_TRANSPORTS", " WGET, curl ,")
	t.Setenv("VEKT_INSTALL_DEBUG", "true")

	cfg, err := NewLoaderWithHome(env.Home, linuxDetector).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Owner != "from-env" {
		t.Errorf("Owner = %q, want from-env", cfg.Owner)
	}
	if cfg.Repo != "from-file" {
		t.Errorf("Repo = %q, want from-file", cfg.Repo)
	}
	if !reflect.DeepEqual(cfg.Transports, []string{"wget", "curl"}) {
		t.Errorf("Transports = %v, want [wget curl]", cfg.Transports)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestLoader_ExplicitConfigPath(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	custom := filepath.Join(env.Home, "custom.lua")
	testutil.WriteConfig(t, env.Home, `install = { repo = "default-file" }`)
	t.Setenv(EnvConfigFile, custom)

	_, err := NewLoaderWithHome(env.Home, linuxDetector).Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
	if hints := errors.FlattenHints(err); !strings.Contains(hints, EnvConfigFile) {
		t.Errorf("hints = %q, want mention of %s", hints, EnvConfigFile)
	}
}

func TestLoader_PlatformOverrideVisibleToLua(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	testutil.WriteConfig(t, env.Home, `
		install = {
			install_dir = platform.when(platform.is_windows, "/opt/windows"),
			debug = platform.distro == nil,
		}
	`)
	t.Setenv("VEKT_INSTALL_OS", "windows")
	t.Setenv("VEKT_INSTALL_ARCH", "amd64")

	cfg, err := NewLoaderWithHome(env.Home, linuxDetector).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.OS != "windows" || cfg.Arch != "amd64" {
		t.Errorf("OS/Arch = %q/%q", cfg.OS, cfg.Arch)
	}
	if cfg.InstallDir != "/opt/windows" {
		t.Errorf("InstallDir = %q, want /opt/windows", cfg.InstallDir)
	}
	if !cfg.Debug {
		t.Error("distro should be cleared for a simulated OS")
	}
}

func TestLoader_UnsupportedHostStillLoads(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	testutil.WriteConfig(t, env.Home, `install = { debug = not platform.supported }`)

	detector := staticDetector{host: platform.Host{RawOS: "Linux", RawArch: "aarch64"}}
	cfg, err := NewLoaderWithHome(env.Home, detector).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Debug {
		t.Error("platform.supported should be false for linux/arm64")
	}
}

func TestLoader_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		file      string
		wantField string
	}{
		{"unknown transport", map[string]string{"VEKT_INSTALL_TRANSPORTS": "ftp"}, "", keyTransports},
		{"bad owner", map[string]string{"VEKT_INSTALL_OWNER": "acme/evil"}, "", keyOwner},
		{"bad scheme", map[string]string{"VEKT_INSTALL_BASE_URL": "ftp://example.com"}, "", keyBaseURL},
		{"relative install dir", nil, `install = { install_dir = "bin" }`, keyInstallDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.SetupTestEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if tt.file != "" {
				testutil.WriteConfig(t, env.Home, tt.file)
			}

			_, err := NewLoaderWithHome(env.Home, linuxDetector).Load(context.Background())

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestLoader_BadLuaFile(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	path := testutil.WriteConfig(t, env.Home, `install = { tranports = { "curl" } }`)

	_, err := NewLoaderWithHome(env.Home, linuxDetector).Load(context.Background())

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parseErr.Path != path {
		t.Errorf("Path = %q, want %q", parseErr.Path, path)
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		key, value string
		wantKey    string
		wantValue  any
	}{
		{"VEKT_INSTALL_REPO", "vekt", "repo", "vekt"},
		{"VEKT_INSTALL_BASE_URL", "https://h", "base_url", "https://h"},
		{"VEKT_INSTALL_INSTALL_DIR", "/opt", "install_dir", "/opt"},
		{"VEKT_INSTALL_TRANSPORTS", "curl,,wget", "transports", []string{"curl", "wget"}},
		{"VEKT_INSTALL_CONFIG", "/x.lua", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k, v := envTransform(tt.key, tt.value)
			if k != tt.wantKey || !reflect.DeepEqual(v, tt.wantValue) {
				t.Errorf("envTransform(%q, %q) = %q, %#v; want %q, %#v", tt.key, tt.value, k, v, tt.wantKey, tt.wantValue)
			}
		})
	}
}
