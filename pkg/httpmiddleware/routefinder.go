package httpmiddleware

import "github.com/go-chi/chi/v5"

// RouteFinder maps a request method and URL path to the matched route
// pattern (e.g. "/api/cart/items/{key}"). It reports false when no route
// matches, so metrics and logs can avoid high-cardinality raw paths.
type RouteFinder func(method, path string) (string, bool)

// MakeRouteFinder builds a RouteFinder from a chi router.
func MakeRouteFinder(router chi.Routes) RouteFinder {
	return func(method, path string) (string, bool) {
		rctx := chi.NewRouteContext()
		if pattern := router.Find(rctx, method, path); pattern != "" {
			return pattern, true
		}
		return "", false
	}
}
