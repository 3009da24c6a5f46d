package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/handlers"
)

// RouteHandler is a function type for HTTP handlers.
type RouteHandler func(http.ResponseWriter, *http.Request)

// MethodRouter maps HTTP methods to handlers.
type MethodRouter map[string]RouteHandler

// allow lists the routed methods in a stable order for the Allow header.
func (m MethodRouter) allow() string {
	methods := make([]string, 0, len(m))
	for method := range m {
		methods = append(methods, method)
	}
	slices.Sort(methods)
	return strings.Join(methods, ", ")
}

// RouteByMethod dispatches on r.Method. Anything unrouted gets a JSON 405
// with an Allow header.
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok {
		w.Header().Set("Allow", routes.allow())
		handlers.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	handler(w, r)
}

// RouteResourceCollection serves a ledger collection such as
// /api/budget/goals: GET reads the ledger, POST appends to it.
func RouteResourceCollection(w http.ResponseWriter, r *http.Request, list, create RouteHandler) {
	RouteByMethod(w, r, routes(map[string]RouteHandler{
		http.MethodGet:  list,
		http.MethodPost: create,
	}))
}

// RouteResourceItem serves one resource: GET, PUT and DELETE, each optional.
func RouteResourceItem(w http.ResponseWriter, r *http.Request, get, update, del RouteHandler) {
	RouteByMethod(w, r, routes(map[string]RouteHandler{
		http.MethodGet:    get,
		http.MethodPut:    update,
		http.MethodDelete: del,
	}))
}

// routes drops nil handlers.
func routes(candidates map[string]RouteHandler) MethodRouter {
	out := make(MethodRouter, len(candidates))
	for method, h := range candidates {
		if h != nil {
			out[method] = h
		}
	}
	return out
}
