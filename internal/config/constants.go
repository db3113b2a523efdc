package config

// Default configuration values
const (
	DefaultOwner   = "vekt-dev"
	DefaultRepo    = "vekt"
	DefaultBaseURL = "https://github.com"
)

// DefaultTransports is the transport preference order when none is configured.
var DefaultTransports = []string{"http", "curl", "wget"}

// KnownTransports lists the accepted transport names.
var KnownTransports = []string{"http", "curl", "wget"}

// Environment variables
const (
	EnvPrefix     = "VEKT_INSTALL_"
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// Default config file location, relative to the home directory
const (
	GlobalConfigDir  = ".config/vekt"
	GlobalConfigFile = "install.lua"
)

// Lua schema
const (
	luaGlobalInstall = "install"

	keyOwner      = "owner"
	keyRepo       = "repo"
	keyBaseURL    = "base_url"
	keyInstallDir = "install_dir"
	keyTransports = "transports"
	keyDebug      = "debug"
	keyOS         = "os"
	keyArch       = "arch"
)

// Resource limits for the Lua config file
const (
	maxConfigSize = 1 << 20 // 1MB
)
