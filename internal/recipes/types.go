package recipes

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// NutrientKeys lists the nutrition facts shown for a recipe, in display order.
var NutrientKeys = []string{
	"calories",
	"carbohydrateContent",
	"cholesterolContent",
	"fiberContent",
	"proteinContent",
	"saturatedFatContent",
	"sodiumContent",
	"sugarContent",
	"fatContent",
}

// Recipe mirrors a single recipe record returned by the API.
type Recipe struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Cuisine     string            `json:"cuisine"`
	Rating      *float64          `json:"rating"`
	TotalTime   *float64          `json:"total_time"`
	PrepTime    *float64          `json:"prep_time"`
	CookTime    *float64          `json:"cook_time"`
	Serves      Serves            `json:"serves"`
	Description string            `json:"description"`
	Nutrients   Nutrients         `json:"nutrients"`
}

// Nutrient returns the display value for key, or "" when absent.
func (r Recipe) Nutrient(key string) string {
	if r.Nutrients == nil {
		return ""
	}
	return strings.TrimSpace(r.Nutrients[key])
}

// Serves is the free-form serving size. The API stores it as text but older
// records carry plain numbers, so both decode into the same string.
type Serves string

// UnmarshalJSON accepts a JSON string, number or null.
func (s *Serves) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Serves(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = Serves(num.String())
	return nil
}

// Nutrients maps a nutrient key to its display text. The API passes the
// stored nutrition JSON through untouched, so values are not always strings.
type Nutrients map[string]string

// UnmarshalJSON keeps strings as-is and stores numbers, booleans, objects and
// arrays as their JSON text. Null entries are dropped. A value that is not an
// object decodes to no nutrients rather than failing the whole record.
func (n *Nutrients) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		*n = nil
		return nil
	}
	out := make(Nutrients, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		switch {
		case len(value) == 0 || bytes.Equal(value, []byte("null")):
			continue
		case value[0] == '"':
			var str string
			if err := json.Unmarshal(value, &str); err != nil {
				return err
			}
			out[key] = str
		default:
			var compact bytes.Buffer
			if err := json.Compact(&compact, value); err != nil {
				return err
			}
			out[key] = compact.String()
		}
	}
	*n = out
	return nil
}

// ListResponse mirrors GET /US_recipes.
type ListResponse struct {
	Page  int      `json:"page"`
	Limit int      `json:"limit"`
	Total int      `json:"total"`
	Data  []Recipe `json:"data"`
}

// SearchResponse mirrors GET /US_recipes/search. Data is the full match set.
type SearchResponse struct {
	Data []Recipe `json:"data"`
}

// healthResponse mirrors GET /health.
type healthResponse struct {
	Status string `json:"status"`
}

// Filters are the search form inputs. Numeric filters are forwarded verbatim
// so the server can interpret comparison prefixes such as ">=4.5".
type Filters struct {
	Title     string
	Cuisine   string
	Rating    string
	TotalTime string
	Calories  string
}

// Values encodes the non-empty, trimmed filters as query parameters.
func (f Filters) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if v := strings.TrimSpace(value); v != "" {
			values.Set(key, v)
		}
	}
	set("title", f.Title)
	set("cuisine", f.Cuisine)
	set("rating", f.Rating)
	set("total_time", f.TotalTime)
	set("calories", f.Calories)
	return values
}

// IsEmpty reports whether no filter would be sent.
func (f Filters) IsEmpty() bool {
	return len(f.Values()) == 0
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (f Filters) Trimmed() Filters {
	return Filters{
		Title:     strings.TrimSpace(f.Title),
		Cuisine:   strings.TrimSpace(f.Cuisine),
		Rating:    strings.TrimSpace(f.Rating),
		TotalTime: strings.TrimSpace(f.TotalTime),
		Calories:  strings.TrimSpace(f.Calories),
	}
}

func pageValues(page, limit int) url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("limit", strconv.Itoa(limit))
	return values
}
