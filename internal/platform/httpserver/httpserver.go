// Package httpserver builds the API server. Per-route deadlines come from
// the handler middleware; only the header read and idle keepalive are
// bounded here.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server ready for ListenAndServe.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
