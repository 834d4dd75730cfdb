package httputil

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// HTTPServer serves a handler on a TCP address, and can be stopped and started again.
// A 0 port in the address binds to any available port, see Addr.
type HTTPServer struct {
	addr    string
	handler http.Handler
	opts    []Option

	// mu guards srv and listener, which are nil while the server is offline.
	mu       sync.RWMutex
	srv      *http.Server
	listener net.Listener
}

// NewHTTPServer creates a server for the handler. It does not serve until Start is called.
func NewHTTPServer(addr string, handler http.Handler, opts ...Option) *HTTPServer {
	return &HTTPServer{addr: addr, handler: handler, opts: opts}
}

func StartHTTPServer(addr string, handler http.Handler, opts ...Option) (*HTTPServer, error) {
	s := NewHTTPServer(addr, handler, opts...)
	return s, s.Start()
}

// Start binds the address and serves in the background.
// It fails if the server does not stay up for a short moment.
func (s *HTTPServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.New("http server is already running")
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       defaultReadTimeout,
		ReadHeaderTimeout: defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
	}
	for _, opt := range s.opts {
		opt(srv)
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind to address %q: %w", s.addr, err)
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-time.After(10 * time.Millisecond):
	}
	s.srv = srv
	s.listener = listener
	return nil
}

// Running reports whether the server is online.
func (s *HTTPServer) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.srv != nil
}

// Stop lets active requests finish, and force-closes the remaining connections once ctx is done.
// Stopping an offline server is a no-op.
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}
	err := s.srv.Shutdown(ctx)
	if err != nil && errors.Is(err, ctx.Err()) {
		err = s.srv.Close()
	}
	if err != nil {
		return err
	}
	s.srv = nil
	s.listener = nil
	return nil
}

// Close stops the server without waiting for active requests.
func (s *HTTPServer) Close() error {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return s.Stop(ctx)
}

// Addr returns the bound address, or nil when offline.
func (s *HTTPServer) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// HTTPEndpoint returns the URL of the server, or an empty string when offline.
func (s *HTTPServer) HTTPEndpoint() string {
	addr := s.Addr()
	if addr == nil {
		return ""
	}
	return "http://" + addr.String()
}
