// Package config loads galley's runtime configuration.
//
// # Overview
//
// Settings come from four layers, later layers winning:
//
//  1. Built-in defaults (see Default)
//  2. A TOML file, ~/.config/galley/config.toml unless --config is given
//  3. GALLEY_* environment variables (GALLEY_API_URL, GALLEY_LOG_LEVEL, ...)
//  4. Command-line flags that were explicitly set
//
// A missing config file is not an error; galley works against a local API
// on the default port without any configuration.
//
// # TOML Format
//
//	api_url = "http://localhost:5678/api"
//	timeout = "5s"
//	page_size = 15
//	page_sizes = [5, 10, 15, 20, 50]
//
//	[log]
//	file = "~/.local/share/galley/galley.log"
//	level = "info"
//
// # Validation
//
// Load rejects a non-positive timeout, non-positive page sizes and a
// page_size that is not in page_sizes. Tilde paths are expanded.
package config
