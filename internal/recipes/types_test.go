package recipes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipe_DecodesNullableFields(t *testing.T) {
	raw := `{
		"id": 7,
		"title": "Soup",
		"cuisine": "French",
		"rating": null,
		"total_time": 45,
		"prep_time": null,
		"cook_time": 30.5,
		"serves": 4,
		"description": "Warm.",
		"nutrients": {"calories": "389 kcal"},
		"unknown": true
	}`
	var r Recipe
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Nil(t, r.Rating)
	require.NotNil(t, r.TotalTime)
	assert.Equal(t, 45.0, *r.TotalTime)
	assert.Nil(t, r.PrepTime)
	assert.Equal(t, 30.5, *r.CookTime)
	assert.Equal(t, Serves("4"), r.Serves)
	assert.Equal(t, "389 kcal", r.Nutrient("calories"))
	assert.Equal(t, "", r.Nutrient("sodiumContent"))
}

func TestServes_AcceptsStringAndNull(t *testing.T) {
	var r struct {
		A Serves `json:"a"`
		B Serves `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": "6 servings", "b": null}`), &r))
	assert.Equal(t, Serves("6 servings"), r.A)
	assert.Equal(t, Serves(""), r.B)

	var bad Serves
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestNutrients_ToleratesNonStringValues(t *testing.T) {
	raw := `{"title": "Stew", "nutrients": {
		"calories": 512,
		"fatContent": "12 g",
		"fiberContent": null,
		"proteinContent": {"amount": 30, "unit": "g"},
		"sugarContent": true
	}}`
	var r Recipe
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "512", r.Nutrient("calories"))
	assert.Equal(t, "12 g", r.Nutrient("fatContent"))
	assert.Equal(t, "", r.Nutrient("fiberContent"))
	assert.Equal(t, `{"amount":30,"unit":"g"}`, r.Nutrient("proteinContent"))
	assert.Equal(t, "true", r.Nutrient("sugarContent"))
}

func TestNutrients_NonObjectIsIgnored(t *testing.T) {
	for _, raw := range []string{
		`{"title": "A", "nutrients": null}`,
		`{"title": "B", "nutrients": "n/a"}`,
		`{"title": "C", "nutrients": [1, 2]}`,
	} {
		var r Recipe
		require.NoError(t, json.Unmarshal([]byte(raw), &r), raw)
		assert.Nil(t, r.Nutrients, raw)
	}
}

func TestListResponse_OddNutrientKeepsPage(t *testing.T) {
	raw := `{"page": 1, "limit": 5, "total": 2, "data": [
		{"id": 1, "title": "Plain", "nutrients": {"calories": "200 kcal"}},
		{"id": 2, "title": "Odd", "nutrients": {"calories": 310.5}}
	]}`
	var resp ListResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "310.5", resp.Data[1].Nutrient("calories"))
}

func TestRecipe_NutrientWithNilMap(t *testing.T) {
	assert.Equal(t, "", Recipe{}.Nutrient("calories"))
}

func TestFilters_Values(t *testing.T) {
	f := Filters{Title: " pie ", Cuisine: "", Rating: ">=4", TotalTime: "\t", Calories: "300"}
	v := f.Values()
	assert.Equal(t, "pie", v.Get("title"))
	assert.Equal(t, ">=4", v.Get("rating"))
	assert.Equal(t, "300", v.Get("calories"))
	assert.False(t, v.Has("cuisine"))
	assert.False(t, v.Has("total_time"))
	assert.False(t, f.IsEmpty())

	assert.True(t, Filters{Title: "  ", Calories: "\n"}.IsEmpty())
	assert.Equal(t, Filters{Title: "pie", Rating: ">=4", Calories: "300"}, f.Trimmed())
}

func TestNutrientKeysOrder(t *testing.T) {
	require.Len(t, NutrientKeys, 9)
	assert.Equal(t, "calories", NutrientKeys[0])
	assert.Equal(t, "fatContent", NutrientKeys[len(NutrientKeys)-1])
}
