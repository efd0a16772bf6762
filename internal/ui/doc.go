// Package ui implements galley's Bubble Tea interface.
//
// # Overview
//
// The screen is a single view stacked top to bottom:
//
//   - Header: mode badge, active filters, loading spinner, API URL and an
//     "api unreachable" flag when the startup health check failed
//   - Filter form: title, cuisine, rating, total time and calories inputs
//   - Table: the current page of recipes with a cursor
//   - Pager: previous/next state and the page summary
//   - Message box: empty results and fetch errors
//   - Footer: key help (press ? for the full list)
//
// Pressing enter on a row opens the detail drawer beside the table (or in
// place of it on narrow terminals). The drawer is filled from the row that is
// already loaded; no request is made.
//
// # Data Flow
//
// The Model owns a browser.Controller and the screen it draws on. Key presses
// become controller events; each event yields a request that runs inside a
// tea.Cmd. Starting a request cancels the context of the one before it, and
// the controller discards any result that is not for the latest request, so
// quick paging never shows an older page over a newer one.
//
// # Keys
//
//	←/h →/l   previous / next page
//	+ -       page size up / down (resets to page 1)
//	/         focus the filter form; tab cycles fields, enter searches
//	c         clear filters and return to the full listing
//	f         fuzzy-filter the rows on this page without a request
//	r         refresh the current page
//	enter     open the detail drawer; t toggles prep/cook times; esc closes
//	T         cycle theme (saved to prefs)
//	?         toggle full help
//	q         quit
package ui
