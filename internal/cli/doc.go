// Package cli defines galley's command line.
//
// The root command opens the interactive browser. The list and search
// subcommands drive the same browser.Controller as the TUI against a printer
// that writes tables to stdout, so a headless run shows exactly the rows,
// pager line and messages the TUI would. Fetch failures are printed to stderr
// and returned, which makes the process exit non-zero.
//
// logs prints the tail of galley's own log file.
package cli
