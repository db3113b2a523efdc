// Package config loads the installer configuration.
//
// Values come from three layers merged with koanf, highest precedence first:
//
//  1. Environment variables prefixed with VEKT_INSTALL_ (VEKT_INSTALL_REPO,
//     VEKT_INSTALL_BASE_URL, VEKT_INSTALL_TRANSPORTS=curl,wget, ...).
//  2. A Lua file, VEKT_INSTALL_CONFIG or ~/.config/vekt/install.lua.
//  3. Built-in defaults.
//
// # Lua config file
//
// The file runs in a sandboxed gopher-lua VM. Only the base, string, table
// and math libraries are opened; functions that load code, print, or bypass
// metatables are removed. A read-only platform table describes the host:
//
//	install = {
//	  install_dir = platform.when(platform.is_macos, "~/bin"),
//	  transports  = { "curl", "http" },
//	  debug       = platform.is_windows,
//	}
//
// Recognized keys are owner, repo, base_url, install_dir, transports and
// debug. Unknown keys are errors so typos do not go unnoticed.
//
// VEKT_INSTALL_OS and VEKT_INSTALL_ARCH replace the detected platform
// strings; they are read before the Lua file so the platform table reflects
// the simulated host.
//
// # Logging
//
// Logger is a small structured logging interface. NewLogger backs it with
// log/slog; NopLogger discards everything and is the default everywhere.
package config
