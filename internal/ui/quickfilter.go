package ui

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/five82/galley/internal/render"
)

// rowSource exposes titles and cuisines to the fuzzy matcher.
type rowSource []render.Row

func (r rowSource) String(i int) string { return r[i].Title + " " + r[i].Cuisine }
func (r rowSource) Len() int            { return len(r) }

// quickMatch returns the indexes of rows matching query, in page order.
// An empty query matches every row.
func quickMatch(rows []render.Row, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]int, len(rows))
		for i := range rows {
			out[i] = i
		}
		return out
	}
	matches := fuzzy.FindFrom(query, rowSource(rows))
	out := make([]int, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.Index)
	}
	slices.Sort(out)
	return out
}
