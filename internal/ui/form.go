package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/five82/galley/internal/recipes"
)

const (
	fieldTitle = iota
	fieldCuisine
	fieldRating
	fieldTotalTime
	fieldCalories
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Cuisine", "Rating", "Total time", "Calories"}

var fieldPlaceholders = [fieldCount]string{"pie", "Italian", ">=4.5", "<=30", "<=400"}

const maxSuggestions = 3

// filterForm holds the five search inputs.
type filterForm struct {
	inputs   [fieldCount]textinput.Model
	focus    int
	active   bool
	cuisines []string
}

func newFilterForm() filterForm {
	var f filterForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldPlaceholders[i]
		in.CharLimit = 64
		in.Width = 16
		f.inputs[i] = in
	}
	return f
}

// Filters returns the current input values.
func (f filterForm) Filters() recipes.Filters {
	return recipes.Filters{
		Title:     f.inputs[fieldTitle].Value(),
		Cuisine:   f.inputs[fieldCuisine].Value(),
		Rating:    f.inputs[fieldRating].Value(),
		TotalTime: f.inputs[fieldTotalTime].Value(),
		Calories:  f.inputs[fieldCalories].Value(),
	}
}

// Focus activates the form on the current field.
func (f *filterForm) Focus() tea.Cmd {
	f.active = true
	return f.inputs[f.focus].Focus()
}

// Blur leaves the form; values are kept.
func (f *filterForm) Blur() {
	f.active = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// Cycle moves focus by delta fields, wrapping around.
func (f *filterForm) Cycle(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// Reset empties every input.
func (f *filterForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
}

// Update forwards msg to the focused input.
func (f *filterForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// Remember records cuisines seen in results for suggestions.
func (f *filterForm) Remember(cuisines ...string) {
	for _, c := range cuisines {
		c = strings.TrimSpace(c)
		if c == "" || c == "—" {
			continue
		}
		i := sort.SearchStrings(f.cuisines, c)
		if i < len(f.cuisines) && f.cuisines[i] == c {
			continue
		}
		f.cuisines = append(f.cuisines, "")
		copy(f.cuisines[i+1:], f.cuisines[i:])
		f.cuisines[i] = c
	}
}

// Suggestions ranks known cuisines against the cuisine input. It is empty
// unless the cuisine field is focused and has text.
func (f filterForm) Suggestions() []string {
	if !f.active || f.focus != fieldCuisine {
		return nil
	}
	query := strings.TrimSpace(f.inputs[fieldCuisine].Value())
	if query == "" {
		return nil
	}
	ranks := fuzzysearch.RankFindFold(query, f.cuisines)
	sort.Sort(ranks)
	out := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if strings.EqualFold(r.Target, query) {
			continue
		}
		out = append(out, r.Target)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// AcceptSuggestion replaces the cuisine input with the best suggestion.
func (f *filterForm) AcceptSuggestion() bool {
	s := f.Suggestions()
	if len(s) == 0 {
		return false
	}
	f.inputs[fieldCuisine].SetValue(s[0])
	f.inputs[fieldCuisine].CursorEnd()
	return true
}
