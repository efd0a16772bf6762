package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/galley/internal/render"
)

func TestQuickMatch(t *testing.T) {
	rows := []render.Row{
		{Title: "Sweet Potato Pie", Cuisine: "Southern Recipes"},
		{Title: "Chicken Tinga", Cuisine: "Mexican"},
		{Title: "Pecan Pie", Cuisine: "Southern Recipes"},
	}

	assert.Equal(t, []int{0, 1, 2}, quickMatch(rows, "  "))
	assert.Equal(t, []int{0, 2}, quickMatch(rows, "pie"))
	assert.Equal(t, []int{1}, quickMatch(rows, "mexican"))
	assert.Empty(t, quickMatch(rows, "zzz"))
}
