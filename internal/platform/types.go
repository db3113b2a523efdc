// Package platform resolves the host operating system and CPU architecture
// into the canonical tokens used to name vekt release assets.
//
// Raw strings come from a Detector (gopsutil backed on real hosts, or an
// override for simulated hosts). Resolve turns them into a Platform, or
// fails with an UnsupportedPlatformError. Resolve is pure; everything that
// touches the environment lives behind Detector.
package platform

import "context"

// OSFamily is the canonical operating system token.
type OSFamily string

const (
	OSLinux   OSFamily = "linux"
	OSMacOS   OSFamily = "macos"
	OSWindows OSFamily = "windows"
)

// ArchFamily is the canonical CPU architecture token.
type ArchFamily string

const (
	ArchAMD64 ArchFamily = "amd64"
	ArchARM64 ArchFamily = "arm64"
)

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Platform is a resolved, supported host platform.
type Platform struct {
	OS   OSFamily
	Arch ArchFamily
}

// String returns "<os>/<arch>".
func (p Platform) String() string {
	return string(p.OS) + "/" + string(p.Arch)
}

// IsWindows returns true if the platform is Windows.
func (p Platform) IsWindows() bool {
	return p.OS == OSWindows
}

// IsMacOS returns true if the platform is macOS.
func (p Platform) IsMacOS() bool {
	return p.OS == OSMacOS
}

// IsLinux returns true if the platform is Linux.
func (p Platform) IsLinux() bool {
	return p.OS == OSLinux
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (p Platform) IsAppleSilicon() bool {
	return p.OS == OSMacOS && p.Arch == ArchARM64
}

// Host holds the raw, environment-reported platform strings.
type Host struct {
	RawOS   string // kernel or OS name as reported, e.g. "Linux", "Darwin", "windows"
	RawArch string // machine name as reported, e.g. "x86_64", "aarch64"
	Distro  string // distro ID (Linux only, e.g. "ubuntu")
	Family  string // canonical family (e.g. "debian")
	Version string // distro version (Linux only, e.g. "22.04")
}

// Describe returns a short human-readable distro label, or "" when unknown.
func (h *Host) Describe() string {
	if h == nil || h.Distro == "" {
		return ""
	}
	if h.Version == "" {
		return h.Distro
	}
	return h.Distro + " " + h.Version
}

// Detector reports the raw platform strings of a host.
type Detector interface {
	Detect(ctx context.Context) (*Host, error)
}
