// Package render turns recipes and browsing state into display values.
// Everything here is pure; the TUI and the headless printer style the
// results themselves.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/five82/galley/internal/recipes"
	"github.com/five82/galley/internal/state"
)

// Placeholder marks a missing value.
const Placeholder = "—"

// Star glyphs.
const (
	StarFull  = "★"
	StarHalf  = "⯪"
	StarEmpty = "☆"
	MaxStars  = 5
)

// StarCounts splits a rating into full, half and empty stars. Ratings are
// clamped to [0, MaxStars] so the three counts always sum to MaxStars.
func StarCounts(rating float64) (full, half, empty int) {
	if math.IsNaN(rating) {
		rating = 0
	}
	rating = math.Max(0, math.Min(rating, MaxStars))
	full = int(math.Floor(rating))
	if rating-float64(full) >= 0.5 {
		half = 1
	}
	empty = MaxStars - full - half
	return full, half, empty
}

// Stars renders a rating as exactly five glyphs, or the placeholder when nil.
func Stars(rating *float64) string {
	if rating == nil {
		return Placeholder
	}
	full, half, empty := StarCounts(*rating)
	return strings.Repeat(StarFull, full) +
		strings.Repeat(StarHalf, half) +
		strings.Repeat(StarEmpty, empty)
}

// Minutes formats a duration in minutes as "<n> min".
func Minutes(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + " min"
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// Row is one table line.
type Row struct {
	Title     string
	Tooltip   string // full title, shown when the cell is truncated
	Cuisine   string
	Rating    string
	TotalTime string
	Serves    string
}

// RowHeaders labels the table columns in Row field order.
var RowHeaders = []string{"Title", "Cuisine", "Rating", "Total", "Serves"}

// Cells returns the row values in RowHeaders order.
func (r Row) Cells() []string {
	return []string{r.Title, r.Cuisine, r.Rating, r.TotalTime, r.Serves}
}

// NewRow renders one recipe as a table row.
func NewRow(item recipes.Recipe) Row {
	return Row{
		Title:     orPlaceholder(item.Title),
		Tooltip:   item.Title,
		Cuisine:   orPlaceholder(item.Cuisine),
		Rating:    Stars(item.Rating),
		TotalTime: Minutes(item.TotalTime),
		Serves:    orPlaceholder(string(item.Serves)),
	}
}

// Rows renders every recipe in order.
func Rows(items []recipes.Recipe) []Row {
	out := make([]Row, 0, len(items))
	for _, item := range items {
		out = append(out, NewRow(item))
	}
	return out
}

// EmptyMessage is shown instead of rows when a page has no data.
func EmptyMessage(mode state.Mode) string {
	if mode == state.ModeSearch {
		return "No results found."
	}
	return "No data."
}

// ListPageInfo echoes the paging values the server reported.
func ListPageInfo(page, limit, total int) string {
	return fmt.Sprintf("Page %d • %d/page • Total %d", page, limit, total)
}

// SearchPageInfo describes a locally paginated match set.
func SearchPageInfo(page, limit, matches int) string {
	return fmt.Sprintf("Search • Page %d • %d/page • Matches %d", page, limit, matches)
}

// PageInfo picks the pager text for mode.
func PageInfo(mode state.Mode, page, limit, total int) string {
	if mode == state.ModeSearch {
		return SearchPageInfo(page, limit, total)
	}
	return ListPageInfo(page, limit, total)
}
