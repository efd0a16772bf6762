// Package recipes provides an HTTP client for the recipe collection API.
//
// # Overview
//
// The API is external to galley and only its contract matters here. The client
// issues parameterized GET requests and decodes the JSON bodies into the types
// in types.go. It never caches and never retries; callers decide when to fetch
// again.
//
// # API Endpoints
//
//   - GET {base}/US_recipes?page=&limit=: one server-paginated page
//     ({page, limit, total, data})
//   - GET {base}/US_recipes/search?title=&cuisine=&rating=&total_time=&calories=:
//     the full, unpaginated match set ({data})
//   - GET {base}/health: liveness probe ({status: "ok"})
//
// The base URL is {scheme}://{host}:{port}/api. A bare host:port is accepted
// and expanded to http://host:port/api.
//
// # Client Usage
//
//	client, err := recipes.NewClient("localhost:5678")
//	if err != nil {
//		return err
//	}
//	page, err := client.List(ctx, 1, 15)
//	matches, err := client.Search(ctx, recipes.Filters{Cuisine: "Italian"})
//
// # Error Handling
//
// Every failure is a *RequestError. Its Kind is one of two sentinels:
//
//   - ErrNetwork: connection failures, timeouts, cancellation and non-2xx statuses
//   - ErrDecode: the body was not the JSON shape the endpoint promises
//
// Use errors.Is(err, recipes.ErrNetwork) to branch on the kind.
//
// # Request Handling
//
// All requests carry Accept: application/json, a galley User-Agent and a fresh
// X-Request-ID so a single fetch can be traced through backend logs.
package recipes
