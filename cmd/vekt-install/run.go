package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/vekt-dev/vekt-install/internal/binary"
	"github.com/vekt-dev/vekt-install/internal/config"
	"github.com/vekt-dev/vekt-install/internal/platform"
	"github.com/vekt-dev/vekt-install/internal/shell"
)

// runDeps holds the collaborators tests replace. Zero values select the real ones.
type runDeps struct {
	detector     platform.Detector
	newInstaller func(p platform.Platform) *binary.Installer
	pathStore    shell.Store
}

var defaultDeps runDeps

// runInstall loads the configuration and performs a full install.
func runInstall(ctx context.Context, stdout, stderr io.Writer, deps runDeps) error {
	detector := deps.detector
	if detector == nil {
		detector = platform.NewDetector()
	}

	loader, err := config.NewLoader(detector)
	if err != nil {
		return errors.Wrap(err, "create config loader")
	}

	cfg, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	logger := config.NewLogger(stderr, cfg.Debug)
	if cfg.Source != "" {
		logger.Debug("loaded config file", "path", cfg.Source)
	}

	mgr, err := binary.NewManager(binary.Options{
		Config:       cfg,
		Detector:     detector,
		NewInstaller: deps.newInstaller,
		PathStore:    deps.pathStore,
		Reporter:     newConsoleReporter(stdout),
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Installing %s/%s...\n", cfg.Owner, cfg.Repo)

	if _, err := mgr.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "Run '%s --help' to get started\n", cfg.Repo)
	return nil
}

// progressStep is the minimum growth between two redraws of the byte counter.
const progressStep = 256 * 1024

// consoleReporter prints Manager events as progress lines.
type consoleReporter struct {
	out  io.Writer
	ok   func(format string, a ...interface{}) string
	warn func(format string, a ...interface{}) string
	dim  func(format string, a ...interface{}) string

	// tty enables the in-place byte counter.
	tty       bool
	lastDrawn int64
	lineWidth int
}

func newConsoleReporter(out io.Writer) *consoleReporter {
	r := &consoleReporter{
		out:  out,
		ok:   color.New(color.FgGreen).SprintfFunc(),
		warn: color.New(color.FgYellow).SprintfFunc(),
		dim:  color.New(color.Faint).SprintfFunc(),
	}
	if f, ok := out.(*os.File); ok {
		r.tty = term.IsTerminal(int(f.Fd()))
	}
	return r
}

func (r *consoleReporter) Platform(host *platform.Host, p platform.Platform) {
	if distro := host.Describe(); distro != "" {
		fmt.Fprintf(r.out, "%s Detected %s (%s)\n", r.ok("✓"), p, distro)
		return
	}
	fmt.Fprintf(r.out, "%s Detected %s\n", r.ok("✓"), p)
}

func (r *consoleReporter) Downloading(asset binary.Asset, mechanism string) {
	fmt.Fprintf(r.out, "  Downloading %s %s\n", asset.URL, r.dim("(%s)", mechanism))
}

// Progress redraws a single "received" line with a carriage return. Nothing
// is printed when out is not a terminal.
func (r *consoleReporter) Progress(total int64) {
	if !r.tty || total-r.lastDrawn < progressStep {
		return
	}
	r.lastDrawn = total
	line := "  " + humanize.Bytes(uint64(total)) + " received"
	fmt.Fprintf(r.out, "\r%-*s", r.lineWidth, line)
	r.lineWidth = len(line)
}

func (r *consoleReporter) clearProgress() {
	if r.lineWidth == 0 {
		return
	}
	fmt.Fprintf(r.out, "\r%*s\r", r.lineWidth, "")
	r.lineWidth, r.lastDrawn = 0, 0
}

func (r *consoleReporter) Downloaded(n int64) {
	r.clearProgress()
	fmt.Fprintf(r.out, "%s Downloaded %s\n", r.ok("✓"), humanize.Bytes(uint64(n)))
}

func (r *consoleReporter) Elevating(path string) {
	r.clearProgress()
	fmt.Fprintf(r.out, "%s Writing %s requires administrator access; sudo may ask for your password\n", r.warn("!"), path)
}

func (r *consoleReporter) Installed(res *binary.InstallResult) {
	if res.Replaced {
		fmt.Fprintf(r.out, "%s Installed %s %s\n", r.ok("✓"), res.Path, r.dim("(replaced previous version)"))
		return
	}
	fmt.Fprintf(r.out, "%s Installed %s\n", r.ok("✓"), res.Path)
}

func (r *consoleReporter) PathRegistered(dir string, outcome shell.Outcome) {
	switch outcome {
	case shell.Added:
		fmt.Fprintf(r.out, "%s Added %s to your user PATH; open a new terminal to use it\n", r.ok("✓"), dir)
	default:
		fmt.Fprintf(r.out, "%s %s is already on your PATH\n", r.ok("✓"), dir)
	}
}

func (r *consoleReporter) PathHint(hint string) {
	fmt.Fprintf(r.out, "%s %s\n", r.warn("⚠"), hint)
}
