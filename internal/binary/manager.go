package binary

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/vekt-dev/vekt-install/internal/config"
	"github.com/vekt-dev/vekt-install/internal/lock"
	"github.com/vekt-dev/vekt-install/internal/platform"
	"github.com/vekt-dev/vekt-install/internal/shell"
	"github.com/vekt-dev/vekt-install/internal/transport"
)

// Reporter receives progress events from Manager.Run.
type Reporter interface {
	Platform(host *platform.Host, p platform.Platform)
	Downloading(asset Asset, mechanism string)
	Progress(total int64)
	Downloaded(bytes int64)
	Elevating(path string)
	Installed(result *InstallResult)
	PathRegistered(dir string, outcome shell.Outcome)
	PathHint(hint string)
}

// nopReporter discards all events.
type nopReporter struct{}

func (nopReporter) Platform(*platform.Host, platform.Platform) {}
func (nopReporter) Downloading(Asset, string)                  {}
func (nopReporter) Progress(int64)                             {}
func (nopReporter) Downloaded(int64)                           {}
func (nopReporter) Elevating(string)                           {}
func (nopReporter) Installed(*InstallResult)                   {}
func (nopReporter) PathRegistered(string, shell.Outcome)       {}
func (nopReporter) PathHint(string)                            {}

// Options configures a Manager. Only Config is required; every other field
// has a production default.
type Options struct {
	Config   *config.Config
	Detector platform.Detector

	// Chain overrides the transport chain built from Config.Transports.
	Chain *transport.Chain
	// NewInstaller overrides installer construction for the resolved platform.
	NewInstaller func(p platform.Platform) *Installer
	// PathStore overrides the persisted search path store (Windows).
	PathStore shell.Store
	// LockDir holds the per-target install lock. Defaults to the system temp dir.
	LockDir string
	// Getenv and Setenv access the process environment.
	Getenv func(string) string
	Setenv func(string, string) error

	Reporter Reporter
	Logger   config.Logger
}

// Result summarizes a completed run.
type Result struct {
	Host        *platform.Host
	Platform    platform.Platform
	Asset       Asset
	Target      Target
	Install     *InstallResult
	PathOutcome shell.Outcome
	PathUpdated bool   // the persisted search path was consulted
	PathHint    string // advice when the install dir is not on PATH (Linux/macOS)
}

// Manager orchestrates platform resolution, download, install and PATH registration
type Manager struct {
	opts Options
}

// NewManager creates a new manager
func NewManager(opts Options) (*Manager, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}

	if opts.Detector == nil {
		opts.Detector = platform.NewDetector()
	}
	if opts.Chain == nil {
		chain, err := transport.FromNames(opts.Config.Transports)
		if err != nil {
			return nil, errors.Wrap(err, "build transport chain")
		}
		opts.Chain = chain
	}
	if opts.NewInstaller == nil {
		opts.NewInstaller = NewInstaller
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Setenv == nil {
		opts.Setenv = os.Setenv
	}
	if opts.LockDir == "" {
		opts.LockDir = os.TempDir()
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = config.NopLogger()
	}

	opts.Chain.WithLogger(opts.Logger)

	return &Manager{opts: opts}, nil
}

// Run performs the whole install. Stages run in order and the first failure
// aborts the run; an unsupported platform fails before any network request.
func (m *Manager) Run(ctx context.Context) (*Result, error) {
	cfg := m.opts.Config
	rep := m.opts.Reporter
	log := m.opts.Logger

	// 1. Platform
	detector := platform.NewOverrideDetector(m.opts.Detector, cfg.OS, cfg.Arch)
	host, p, err := platform.DetectAndResolve(ctx, detector)
	if err != nil {
		return nil, err
	}
	rep.Platform(host, p)
	log.Debug("platform resolved", "os", p.OS, "arch", p.Arch, "raw_os", host.RawOS, "raw_arch", host.RawArch)

	res := &Result{Host: host, Platform: p}

	// 2. Asset and target
	res.Asset = Locate(cfg.Owner, cfg.Repo, cfg.BaseURL, p)
	if cfg.InstallDir != "" {
		res.Target = NewTarget(cfg.InstallDir, cfg.Repo, p)
	} else {
		res.Target, err = DefaultTarget(p, cfg.Repo, m.opts.Getenv)
		if err != nil {
			return nil, err
		}
	}

	l, err := lock.Acquire(ctx, m.opts.LockDir, res.Target.FinalPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := l.Release(); err != nil {
			log.Warn("failed to release install lock", "path", l.Path(), "error", err)
		}
	}()

	// 3. Download
	mechanism, err := m.opts.Chain.Select()
	if err != nil {
		return nil, err
	}
	rep.Downloading(res.Asset, mechanism.Name())

	body, err := mechanism.Fetch(ctx, res.Asset.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "download %s", res.Asset.FileName)
	}
	defer body.Close()

	progress := transport.NewProgressReader(body, rep.Progress)

	// 4. Install
	installer := m.opts.NewInstaller(p).
		WithLogger(log).
		OnElevate(rep.Elevating)

	res.Install, err = installer.Install(ctx, progress, res.Target)
	if err != nil {
		// Command fetchers report a failed transfer only once the body is drained.
		var terr *transport.Error
		if errors.As(err, &terr) {
			return nil, errors.Wrapf(terr, "download %s", res.Asset.FileName)
		}
		return nil, errors.Wrapf(err, "install %s", res.Asset.FileName)
	}
	rep.Downloaded(progress.Total())
	rep.Installed(res.Install)

	// 5. Search path
	if err := m.registerPath(res); err != nil {
		return nil, err
	}

	return res, nil
}

// registerPath adds the install dir to the persisted PATH on Windows, or
// computes a hint on Linux and macOS.
func (m *Manager) registerPath(res *Result) error {
	dir := res.Target.Dir

	if !res.Platform.IsWindows() {
		res.PathHint = shell.CurrentPathHint(dir, m.opts.Getenv("PATH"))
		if res.PathHint != "" {
			m.opts.Reporter.PathHint(res.PathHint)
		}
		return nil
	}

	store := m.opts.PathStore
	if store == nil {
		var ok bool
		store, ok = shell.DefaultStore()
		if !ok {
			m.opts.Logger.Warn("no persisted PATH on this host; skipping registration", "dir", dir)
			res.PathHint = "add " + dir + " to your PATH"
			m.opts.Reporter.PathHint(res.PathHint)
			return nil
		}
	}

	registrar := shell.NewRegistrar(store, true).
		WithProcessEnv(m.opts.Getenv, m.opts.Setenv).
		WithLogger(m.opts.Logger)

	outcome, err := registrar.Register(dir)
	if err != nil {
		return errors.WithHint(err, "add "+dir+" to your PATH manually")
	}

	res.PathOutcome = outcome
	res.PathUpdated = true
	m.opts.Reporter.PathRegistered(dir, outcome)
	return nil
}
