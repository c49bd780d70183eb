package middleware

import "net/http"

// Chain wraps h so that the first middleware listed sees the request first.
//
//	handler := Chain(mux, Recover, RequestLogging)
//	// Recover(RequestLogging(mux))
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
