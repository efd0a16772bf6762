// Package logtail reads the tail of galley's JSON log file and turns entries
// into readable lines for the `galley logs` command.
//
// Read keeps only a bounded window of lines in memory, so tailing a large
// log does not load the whole file. Parse and Format understand the zap JSON
// encoding written by the logging package; lines that fail to parse are
// printed verbatim by callers.
package logtail
