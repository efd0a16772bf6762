package render

import (
	"strings"

	"github.com/five82/galley/internal/recipes"
)

// Times indicator glyphs.
const (
	IndicatorExpanded  = "▲"
	IndicatorCollapsed = "▼"
)

// NutritionRow is one line of the nutrition table.
type NutritionRow struct {
	Key   string
	Value string
}

// Detail is the content of the detail drawer for one recipe.
type Detail struct {
	Title         string
	Subtitle      string
	Description   string
	TotalTime     string
	PrepTime      string
	CookTime      string
	TimesExpanded bool
	Nutrition     []NutritionRow
	Recipe        recipes.Recipe
}

// NewDetail builds the drawer for item. The time breakdown starts collapsed
// and the nutrition table always lists every key in recipes.NutrientKeys.
func NewDetail(item recipes.Recipe) Detail {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Untitled"
	}
	nutrition := make([]NutritionRow, 0, len(recipes.NutrientKeys))
	for _, key := range recipes.NutrientKeys {
		nutrition = append(nutrition, NutritionRow{Key: key, Value: orPlaceholder(item.Nutrient(key))})
	}
	return Detail{
		Title:       title,
		Subtitle:    item.Cuisine,
		Description: orPlaceholder(item.Description),
		TotalTime:   Minutes(item.TotalTime),
		PrepTime:    Minutes(item.PrepTime),
		CookTime:    Minutes(item.CookTime),
		Nutrition:   nutrition,
		Recipe:      item,
	}
}

// ToggleTimes flips the visibility of the prep/cook breakdown.
func (d *Detail) ToggleTimes() {
	d.TimesExpanded = !d.TimesExpanded
}

// TimesIndicator returns the glyph for the current toggle state.
func (d Detail) TimesIndicator() string {
	if d.TimesExpanded {
		return IndicatorExpanded
	}
	return IndicatorCollapsed
}

// Drawer is the open/closed state of the detail side panel.
type Drawer struct {
	open   bool
	detail Detail
}

// Open shows d, replacing whatever was displayed.
func (dr *Drawer) Open(d Detail) {
	dr.detail = d
	dr.open = true
}

// Close hides the drawer. The last detail is kept until the next Open.
func (dr *Drawer) Close() {
	dr.open = false
}

// IsOpen reports whether the drawer is visible.
func (dr *Drawer) IsOpen() bool {
	return dr.open
}

// Detail returns the displayed detail.
func (dr *Drawer) Detail() Detail {
	return dr.detail
}

// ToggleTimes flips the time breakdown of the open detail.
func (dr *Drawer) ToggleTimes() {
	if dr.open {
		dr.detail.ToggleTimes()
	}
}
