// Package state holds the browsing state for galley: the pagination cursor,
// page size, match total, active mode and the rows on screen.
//
// # Overview
//
// A Store is created once per session and owned by the browser controller,
// which passes it by pointer. It is never persisted and never shared between
// goroutines; the controller applies every mutation from a single goroutine
// (the Bubble Tea update loop or the headless command).
//
// # Modes
//
//   - ModeList: the server paginates. Page and limit are sent to the API and
//     the total is trusted from the response.
//   - ModeSearch: the server returns every match. The store keeps the total
//     and slices the current page locally with SlicePage.
//
// # Request Sequencing
//
// Every fetch is issued with a token from Issue. Tokens grow monotonically and
// only the latest one is current, so a slow response that arrives after a
// newer request was issued is discarded instead of overwriting fresher data.
//
// # Pagination Arithmetic
//
//	Offset(page, limit)              = (page-1)*limit
//	LastPage(total, limit)           = ceil(total/limit)
//	PrevDisabled(page)               = page <= 1
//	NextDisabled(page, limit, total) = page*limit >= total
//
// In search mode the next-disabled rule is usually written start+limit >= total
// with start = Offset(page, limit); the two forms are the same expression.
package state
