// Package app is galley's composition root.
//
// # Overview
//
// Setup builds everything both front ends need:
//
//  1. config.Load: defaults, config file, GALLEY_* env, changed flags
//  2. logging.New: JSON log file (no-op logger if it cannot be opened)
//  3. recipes.NewClient: API client with the configured timeout
//
// Run then loads prefs and hands a fresh state.Store to ui.Run. The API
// health probe runs in the background next to the first page load; a failed
// probe is logged and flagged in the header, and the TUI keeps working.
//
// # Components
//
//   - app.go: Setup, Env and Run
//   - probe.go: startup health probe with capped exponential backoff
package app
