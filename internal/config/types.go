package config

// Config is the effective installer configuration after all layers are merged.
type Config struct {
	// Owner and Repo identify the release project on the host.
	Owner string `koanf:"owner"`
	Repo  string `koanf:"repo"`

	// BaseURL is the release host, e.g. https://github.com or a GitHub Enterprise URL.
	BaseURL string `koanf:"base_url"`

	// InstallDir overrides the platform default install directory.
	InstallDir string `koanf:"install_dir"`

	// Transports lists download mechanisms in preference order.
	Transports []string `koanf:"transports"`

	Debug bool `koanf:"debug"`

	// OS and Arch replace the detected raw platform strings. Environment only.
	OS   string `koanf:"os"`
	Arch string `koanf:"arch"`

	// Source is the Lua file that was loaded, empty when none.
	Source string `koanf:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Owner:      DefaultOwner,
		Repo:       DefaultRepo,
		BaseURL:    DefaultBaseURL,
		Transports: append([]string(nil), DefaultTransports...),
	}
}

func defaultsToMap() map[string]any {
	return map[string]any{
		keyOwner:      DefaultOwner,
		keyRepo:       DefaultRepo,
		keyBaseURL:    DefaultBaseURL,
		keyInstallDir: "",
		keyTransports: append([]string(nil), DefaultTransports...),
		keyDebug:      false,
		keyOS:         "",
		keyArch:       "",
	}
}
