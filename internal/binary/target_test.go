package binary

import (
	"path/filepath"
	"testing"

	"github.com/vekt-dev/vekt-install/internal/platform"
	"github.com/vekt-dev/vekt-install/internal/testutil"
)

var (
	linuxAMD64   = platform.Platform{OS: platform.OSLinux, Arch: platform.ArchAMD64}
	macARM64     = platform.Platform{OS: platform.OSMacOS, Arch: platform.ArchARM64}
	windowsAMD64 = platform.Platform{OS: platform.OSWindows, Arch: platform.ArchAMD64}
)

func TestDefaultTarget(t *testing.T) {
	localAppData := filepath.Join("C:", "Users", "ada", "AppData", "Local")
	getenv := func(k string) string {
		if k == "LOCALAPPDATA" {
			return localAppData
		}
		return ""
	}

	tests := []struct {
		name string
		p    platform.Platform
		want Target
	}{
		{"linux", linuxAMD64, Target{Dir: "/usr/local/bin", BinaryName: "vekt", FinalPath: "/usr/local/bin/vekt"}},
		{"macos", macARM64, Target{Dir: "/usr/local/bin", BinaryName: "vekt", FinalPath: "/usr/local/bin/vekt"}},
		{"windows", windowsAMD64, Target{
			Dir:        filepath.Join(localAppData, "vekt"),
			BinaryName: "vekt.exe",
			FinalPath:  filepath.Join(localAppData, "vekt", "vekt.exe"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DefaultTarget(tt.p, "vekt", getenv)
			if err != nil {
				t.Fatalf("DefaultTarget() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DefaultTarget() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultTarget_WindowsWithoutLocalAppData(t *testing.T) {
	env := testutil.SetupTestEnv(t)

	got, err := DefaultTarget(windowsAMD64, "vekt", func(string) string { return "" })
	if err != nil {
		t.Fatalf("DefaultTarget() error = %v", err)
	}

	want := filepath.Join(env.Home, "AppData", "Local", "vekt")
	if got.Dir != want {
		t.Errorf("Dir = %q, want %q", got.Dir, want)
	}
}

func TestNewTarget(t *testing.T) {
	got := NewTarget("/opt/tools", "vekt", windowsAMD64)
	if got.BinaryName != "vekt.exe" || got.FinalPath != filepath.Join("/opt/tools", "vekt.exe") {
		t.Errorf("NewTarget() = %+v", got)
	}
}
