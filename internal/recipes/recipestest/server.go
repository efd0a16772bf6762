// Package recipestest runs an in-memory recipe API for tests.
package recipestest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/five82/galley/internal/recipes"
)

// Failure selects how the fake API misbehaves.
type Failure int

const (
	FailNone Failure = iota
	// FailStatus answers every recipe endpoint with 500.
	FailStatus
	// FailDecode answers every recipe endpoint with a truncated JSON body.
	FailDecode
)

// Server is a fake recipe API backed by a fixed slice of recipes.
// List pages are sliced server-side; search matches title by substring and
// cuisine exactly (both case-insensitive) and ignores the numeric filters.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	recipes  []recipes.Recipe
	failure  Failure
	requests []Request
	hold     chan struct{}
}

// Request records one call seen by the fake.
type Request struct {
	Path      string
	Query     url.Values
	UserAgent string
	RequestID string
}

// New starts a fake API and registers its shutdown with t.Cleanup.
func New(t testing.TB, items []recipes.Recipe) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{recipes: append([]recipes.Recipe(nil), items...)}

	router := gin.New()
	api := router.Group("/api")
	api.Use(s.record)
	api.GET("/health", func(c *gin.Context) {
		if !s.wait(c) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/US_recipes", s.failOr(s.list))
	api.GET("/US_recipes/search", s.failOr(s.search))

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Server.Close)
	return s
}

// BaseURL returns the API root, e.g. http://127.0.0.1:1234/api.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// SetFailure switches the failure mode for subsequent requests.
func (s *Server) SetFailure(f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failure = f
}

// SetRecipes replaces the backing collection.
func (s *Server) SetRecipes(items []recipes.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes = append([]recipes.Recipe(nil), items...)
}

// Hold blocks every endpoint, health included, until the returned release
// func is called.
func (s *Server) Hold() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.hold == ch {
				s.hold = nil
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns a copy of every recorded request.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, or the zero value.
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Path:      c.Request.URL.Path,
		Query:     c.Request.URL.Query(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetHeader("X-Request-ID"),
	})
	s.mu.Unlock()
	c.Next()
}

// wait blocks while a hold is active. It reports false when the client gave
// up first.
func (s *Server) wait(c *gin.Context) bool {
	s.mu.Lock()
	hold := s.hold
	s.mu.Unlock()
	if hold == nil {
		return true
	}
	select {
	case <-hold:
		return true
	case <-c.Request.Context().Done():
		return false
	}
}

func (s *Server) failOr(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.wait(c) {
			return
		}
		s.mu.Lock()
		failure := s.failure
		s.mu.Unlock()

		switch failure {
		case FailStatus:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
			return
		case FailDecode:
			c.Data(http.StatusOK, "application/json", []byte(`{"data": [`))
			return
		}
		next(c)
	}
}

func (s *Server) list(c *gin.Context) {
	page := atoiDefault(c.Query("page"), 1)
	limit := atoiDefault(c.Query("limit"), 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	s.mu.Lock()
	all := append([]recipes.Recipe(nil), s.recipes...)
	s.mu.Unlock()

	start := (page - 1) * limit
	data := []recipes.Recipe{}
	if start < len(all) {
		end := min(start+limit, len(all))
		data = all[start:end]
	}
	c.JSON(http.StatusOK, recipes.ListResponse{
		Page:  page,
		Limit: limit,
		Total: len(all),
		Data:  data,
	})
}

func (s *Server) search(c *gin.Context) {
	title := strings.ToLower(strings.TrimSpace(c.Query("title")))
	cuisine := strings.ToLower(strings.TrimSpace(c.Query("cuisine")))

	s.mu.Lock()
	defer s.mu.Unlock()

	data := []recipes.Recipe{}
	for _, r := range s.recipes {
		if title != "" && !strings.Contains(strings.ToLower(r.Title), title) {
			continue
		}
		if cuisine != "" && strings.ToLower(r.Cuisine) != cuisine {
			continue
		}
		data = append(data, r)
	}
	c.JSON(http.StatusOK, recipes.SearchResponse{Data: data})
}

func atoiDefault(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

// Fixture builds n recipes titled "Recipe 01".."Recipe n" alternating between
// two cuisines, with ratings and times set so rendering has data to show.
func Fixture(n int) []recipes.Recipe {
	out := make([]recipes.Recipe, 0, n)
	for i := 1; i <= n; i++ {
		rating := float64(i%5) + 0.5
		total := float64(10 * i)
		cuisine := "Italian"
		if i%2 == 0 {
			cuisine = "Mexican"
		}
		out = append(out, recipes.Recipe{
			ID:        int64(i),
			Title:     "Recipe " + pad2(i),
			Cuisine:   cuisine,
			Rating:    &rating,
			TotalTime: &total,
			Serves:    recipes.Serves(strconv.Itoa(2 + i%4)),
			Nutrients: map[string]string{"calories": strconv.Itoa(100*i) + " kcal"},
		})
	}
	return out
}

func pad2(i int) string {
	if i < 10 {
		return "0" + strconv.Itoa(i)
	}
	return strconv.Itoa(i)
}
