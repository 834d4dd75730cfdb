package httputil

import (
	"net/http"
	"time"
)

const (
	defaultReadTimeout  = 30 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
)

// Option adjusts the http.Server before it starts serving.
// Options are applied again on every Start, to the fresh http.Server.
type Option func(srv *http.Server)

// WithTimeouts overrides the read and write timeouts of the server.
func WithTimeouts(read, write time.Duration) Option {
	return func(srv *http.Server) {
		srv.ReadTimeout = read
		srv.ReadHeaderTimeout = read
		srv.WriteTimeout = write
	}
}

func WithMaxHeaderBytes(max int) Option {
	return func(srv *http.Server) {
		srv.MaxHeaderBytes = max
	}
}
