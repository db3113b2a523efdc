package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/go-homedir"

	"github.com/vekt-dev/vekt-install/internal/platform"
)

// Loader merges configuration from all sources.
// Precedence order (highest to lowest):
// 1. Environment Variables (VEKT_INSTALL_*)
// 2. Lua config file (VEKT_INSTALL_CONFIG or ~/.config/vekt/install.lua)
// 3. Defaults
type Loader struct {
	homeDir  string
	detector platform.Detector
	logger   Logger
	opts     koanf.UnmarshalConf
}

// NewLoader creates a Loader using the user's home directory. detector feeds
// the platform table visible to the Lua file.
func NewLoader(detector platform.Detector) (*Loader, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	return NewLoaderWithHome(homeDir, detector), nil
}

// NewLoaderWithHome creates a Loader with a custom home directory (for testing).
func NewLoaderWithHome(homeDir string, detector platform.Detector) *Loader {
	return &Loader{
		homeDir:  homeDir,
		detector: detector,
		logger:   NopLogger(),
		opts:     koanf.UnmarshalConf{Tag: "koanf"},
	}
}

// WithLogger sets the logger.
func (l *Loader) WithLogger(logger Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// GlobalConfigPath returns the default Lua config path.
func (l *Loader) GlobalConfigPath() string {
	return filepath.Join(l.homeDir, GlobalConfigDir, GlobalConfigFile)
}

// Load merges defaults, the Lua file and the environment, then validates.
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	// Environment is read first so a platform override is visible to the Lua file.
	envK := koanf.New(".")
	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}
	if err := envK.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	// 2. Lua file
	path, explicit := l.configPath()
	if _, err := os.Stat(path); err == nil {
		values, err := l.loadLua(ctx, path, envK.String(keyOS), envK.String(keyArch))
		if err != nil {
			return nil, err
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to merge config file")
		}
	} else if explicit || !os.IsNotExist(err) {
		return nil, errors.WithHint(
			errors.Wrapf(err, "config file %s", path),
			"unset "+EnvConfigFile+" or point it at an existing file",
		)
	} else {
		path = ""
	}

	// 3. Environment
	if err := k.Merge(envK); err != nil {
		return nil, errors.Wrap(err, "failed to merge env vars")
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, l.opts); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Source = path

	if err := normalize(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	l.logger.Debug("config loaded", "source", cfg.Source, "owner", cfg.Owner, "repo", cfg.Repo, "transports", cfg.Transports)

	return &cfg, nil
}

// configPath returns the Lua config path and whether it was set explicitly.
func (l *Loader) configPath() (string, bool) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		if expanded, err := homedir.Expand(p); err == nil {
			return expanded, true
		}
		return p, true
	}
	return l.GlobalConfigPath(), false
}

func (l *Loader) loadLua(ctx context.Context, path, rawOS, rawArch string) (map[string]any, error) {
	var host *platform.Host
	var resolved *platform.Platform

	if l.detector != nil {
		d := platform.NewOverrideDetector(l.detector, rawOS, rawArch)
		h, p, err := platform.DetectAndResolve(ctx, d)
		if h == nil {
			return nil, err
		}
		host = h
		if err == nil {
			resolved = &p
		}
	}

	l.logger.Debug("loading config file", "path", path)
	return ParseLuaFile(ctx, path, host, resolved)
}

// envTransform maps environment variable names to config keys.
// VEKT_INSTALL_BASE_URL → base_url, VEKT_INSTALL_TRANSPORTS=curl,wget → [curl wget]
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	switch key {
	case "config":
		// Selects the file, not a value.
		return "", nil
	case keyTransports:
		var list []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		return key, list
	}

	return key, value
}

// normalize trims values and expands "~" in install_dir.
func normalize(cfg *Config) error {
	cfg.Owner = strings.TrimSpace(cfg.Owner)
	cfg.Repo = strings.TrimSpace(cfg.Repo)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	for i, name := range cfg.Transports {
		cfg.Transports[i] = strings.ToLower(strings.TrimSpace(name))
	}

	if dir := strings.TrimSpace(cfg.InstallDir); dir != "" {
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return &ValidationError{Field: keyInstallDir, Value: dir, Message: err.Error()}
		}
		cfg.InstallDir = filepath.Clean(expanded)
	}

	return nil
}
