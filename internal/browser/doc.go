// Package browser drives recipe browsing: it turns user events into API
// requests, applies responses to the state store and pushes the result to a
// View.
//
// # Overview
//
// A Controller owns the *state.Store, a recipes.Fetcher and a View. Every
// user event (page change, page-size change, search, clear, refresh) is a
// method that returns a Request describing the fetch to perform, or ok=false
// when the event is a no-op (for example "previous" on page 1).
//
// Running a request is split in two so callers can choose where the network
// call happens:
//
//   - Execute performs the HTTP call. It never touches the store, so the TUI
//     runs it inside a tea.Cmd goroutine.
//   - Apply commits a Result to the store and redraws the View. Results for
//     any request other than the most recently issued one are discarded.
//
// Do runs both in sequence for headless callers.
//
// # Errors
//
// Fetch failures never change the store or the rows on screen. They are
// reported through View.ShowMessage as a network or decode message, and the
// user retries by triggering any fetch-causing event again.
package browser
