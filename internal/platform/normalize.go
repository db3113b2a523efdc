package platform

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// windowsKernelPrefixes are uname -s values reported by POSIX layers on Windows.
var windowsKernelPrefixes = []string{"mingw", "msys", "cygwin"}

// Resolve maps raw OS and architecture strings to a supported Platform.
//
// Matching is case-insensitive. linux/arm64 parses fine but is rejected
// with KindNotYetSupported, which callers can tell apart from an unknown
// architecture.
func Resolve(rawOS, rawArch string) (Platform, error) {
	osFamily, err := normalizeOS(rawOS)
	if err != nil {
		return Platform{}, err
	}

	arch, err := normalizeArch(rawArch)
	if err != nil {
		return Platform{}, err
	}

	p := Platform{OS: osFamily, Arch: arch}
	if p.OS == OSLinux && p.Arch == ArchARM64 {
		return Platform{}, errors.WithHint(
			&UnsupportedPlatformError{Kind: KindNotYetSupported, Raw: rawArch, Platform: p},
			"prebuilt linux/arm64 binaries are not published yet; build from source instead",
		)
	}

	return p, nil
}

// normalizeOS converts kernel or GOOS names to an OSFamily.
func normalizeOS(raw string) (OSFamily, error) {
	name := normalizePlatform(raw)

	switch name {
	case "linux":
		return OSLinux, nil
	case "darwin", "macos", "osx":
		return OSMacOS, nil
	case "windows", "windows_nt":
		return OSWindows, nil
	}

	for _, prefix := range windowsKernelPrefixes {
		if strings.HasPrefix(name, prefix) {
			return OSWindows, nil
		}
	}

	return "", errors.WithHint(
		&UnsupportedPlatformError{Kind: KindUnknownOS, Raw: raw},
		"supported operating systems are linux, macos and windows",
	)
}

// normalizeArch converts machine or GOARCH names to an ArchFamily.
func normalizeArch(raw string) (ArchFamily, error) {
	name := normalizePlatform(raw)

	switch name {
	case "amd64", "x86_64", "x64", "x86-64":
		return ArchAMD64, nil
	case "arm64", "aarch64", "arm64e":
		return ArchARM64, nil
	}

	if strings.HasPrefix(name, "armv8") {
		return ArchARM64, nil
	}

	return "", errors.WithHint(
		&UnsupportedPlatformError{Kind: KindUnknownArch, Raw: raw},
		"supported architectures are amd64 (x86_64) and arm64 (aarch64)",
	)
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := normalizePlatform(family)
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}

	return FamilyUnknown
}
