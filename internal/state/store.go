package state

import (
	"fmt"

	"github.com/five82/galley/internal/recipes"
)

// Mode selects who paginates: the server (list) or the client (search).
type Mode int

const (
	ModeList Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeList:
		return "list"
	case ModeSearch:
		return "search"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

const (
	// DefaultLimit is the page size used until the user picks another.
	DefaultLimit = 15
)

// DefaultLimitOptions is the page-size option set offered to the user.
var DefaultLimitOptions = []int{5, 10, 15, 20, 50}

// Snapshot is a copy of the store taken for rendering.
type Snapshot struct {
	Page  int
	Limit int
	Total int
	Mode  Mode
	Data  []recipes.Recipe
}

// Store is the single mutable browsing state. It is not safe for concurrent use.
type Store struct {
	page  int
	limit int
	total int
	mode  Mode
	data  []recipes.Recipe
	seq   uint64
}

// NewStore returns a store at page 1 in list mode. Non-positive limits fall
// back to DefaultLimit.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{page: 1, limit: limit, mode: ModeList}
}

func (s *Store) Page() int  { return s.page }
func (s *Store) Limit() int { return s.limit }
func (s *Store) Total() int { return s.total }
func (s *Store) Mode() Mode { return s.mode }

// Data returns a copy of the rows on the current page.
func (s *Store) Data() []recipes.Recipe {
	return cloneRecipes(s.data)
}

// Row returns the i-th visible row.
func (s *Store) Row(i int) (recipes.Recipe, bool) {
	if i < 0 || i >= len(s.data) {
		return recipes.Recipe{}, false
	}
	return s.data[i], true
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Page:  s.page,
		Limit: s.limit,
		Total: s.total,
		Mode:  s.mode,
		Data:  cloneRecipes(s.data),
	}
}

// SetPage moves the cursor; values below 1 clamp to 1.
func (s *Store) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

// SetLimit changes the page size. Non-positive values are ignored.
func (s *Store) SetLimit(limit int) {
	if limit > 0 {
		s.limit = limit
	}
}

// SetMode switches between list and search mode.
func (s *Store) SetMode(mode Mode) {
	s.mode = mode
}

// ApplyList records a server-paginated response. Rows beyond the current
// limit are dropped so the visible page never exceeds the page size.
func (s *Store) ApplyList(resp recipes.ListResponse) {
	s.mode = ModeList
	s.total = max(resp.Total, 0)
	data := resp.Data
	if len(data) > s.limit {
		data = data[:s.limit]
	}
	s.data = cloneRecipes(data)
}

// ApplySearch records a full match set and keeps the slice for the current page.
func (s *Store) ApplySearch(all []recipes.Recipe) {
	s.mode = ModeSearch
	s.total = len(all)
	s.data = cloneRecipes(SlicePage(all, s.page, s.limit))
}

// PrevDisabled reports whether there is no previous page.
func (s *Store) PrevDisabled() bool {
	return PrevDisabled(s.page)
}

// NextDisabled reports whether the current page is the last one.
func (s *Store) NextDisabled() bool {
	return NextDisabled(s.page, s.limit, s.total)
}

// LastPage returns the last reachable page for the current total.
func (s *Store) LastPage() int {
	return LastPage(s.total, s.limit)
}

// Issue returns a new request token; it becomes the only current token.
func (s *Store) Issue() uint64 {
	s.seq++
	return s.seq
}

// IsCurrent reports whether seq is the most recently issued token.
func (s *Store) IsCurrent(seq uint64) bool {
	return seq != 0 && seq == s.seq
}

// Offset returns the index of the first row on page.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	return (page - 1) * limit
}

// SlicePage returns the rows of all that fall on page. The result aliases all.
func SlicePage(all []recipes.Recipe, page, limit int) []recipes.Recipe {
	if limit <= 0 {
		return nil
	}
	start := Offset(page, limit)
	if start >= len(all) {
		return nil
	}
	end := min(start+limit, len(all))
	return all[start:end]
}

// LastPage returns ceil(total/limit), or 0 when there is nothing to show.
func LastPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// PrevDisabled reports whether page is the first page.
func PrevDisabled(page int) bool {
	return page <= 1
}

// NextDisabled reports whether no rows exist past page.
func NextDisabled(page, limit, total int) bool {
	return Offset(page, limit)+limit >= total
}

func cloneRecipes(items []recipes.Recipe) []recipes.Recipe {
	if len(items) == 0 {
		return nil
	}
	dup := make([]recipes.Recipe, len(items))
	copy(dup, items)
	return dup
}
