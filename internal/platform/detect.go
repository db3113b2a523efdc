package platform

import (
	"context"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect reports the host's raw OS and machine strings.
//
// gopsutil supplies the kernel architecture (uname -m style, e.g. "x86_64")
// and, on Linux, distribution details. When gopsutil cannot answer, Detect
// falls back to runtime.GOOS and runtime.GOARCH so that OS/arch detection
// keeps working; only context cancellation is a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (*Host, error) {
	h := &Host{
		RawOS:   runtime.GOOS,
		RawArch: runtime.GOARCH,
	}

	stat, err := host.InfoWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "platform detection cancelled")
		}
		return h, nil
	}

	if stat.OS != "" {
		h.RawOS = stat.OS
	}
	if stat.KernelArch != "" {
		h.RawArch = stat.KernelArch
	}

	if normalizePlatform(h.RawOS) == "linux" {
		distro := normalizePlatform(stat.Platform)
		if distro != "" {
			h.Distro = distro
			h.Family = mapFamily(stat.PlatformFamily)
			h.Version = normalizePlatform(stat.PlatformVersion)
		}
	}

	return h, nil
}

// OverrideDetector replaces the raw OS and/or architecture reported by Base.
// Empty overrides keep Base's values. A nil Base with both overrides set
// performs no detection at all, which is how simulated hosts are built.
type OverrideDetector struct {
	Base Detector
	OS   string
	Arch string
}

// NewOverrideDetector wraps base, returning base unchanged when no override is set.
func NewOverrideDetector(base Detector, rawOS, rawArch string) Detector {
	if rawOS == "" && rawArch == "" {
		return base
	}
	return &OverrideDetector{Base: base, OS: rawOS, Arch: rawArch}
}

// Detect applies the overrides on top of Base's answer.
func (d *OverrideDetector) Detect(ctx context.Context) (*Host, error) {
	h := &Host{}

	if d.Base != nil && (d.OS == "" || d.Arch == "") {
		detected, err := d.Base.Detect(ctx)
		if err != nil {
			return nil, err
		}
		*h = *detected
	}

	if d.OS != "" {
		h.RawOS = d.OS
		// Distro details describe the real host, not the simulated one.
		h.Distro, h.Family, h.Version = "", "", ""
	}
	if d.Arch != "" {
		h.RawArch = d.Arch
	}

	return h, nil
}

// DetectAndResolve runs the detector and resolves its raw strings.
func DetectAndResolve(ctx context.Context, d Detector) (*Host, Platform, error) {
	h, err := d.Detect(ctx)
	if err != nil {
		return nil, Platform{}, errors.Wrap(err, "detect platform")
	}

	p, err := Resolve(h.RawOS, h.RawArch)
	if err != nil {
		return h, Platform{}, err
	}

	return h, p, nil
}
