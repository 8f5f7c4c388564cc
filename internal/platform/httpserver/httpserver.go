// Package httpserver builds the portal's HTTP listener. Servers built here
// are short-lived by design: the serve loop constructs a fresh one on every
// rebind after a port change.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server for the portal. The timeouts are sized for tiny
// form submissions; anything slower than this is a stuck client.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}
