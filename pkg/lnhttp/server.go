// Package lnhttp decouples listener creation from HTTP server operation so
// the agent's status API can serve on a plain TCP socket in production and
// on an ephemeral loopback listener in tests, through the same server type.
package lnhttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// ListenerProvider abstracts how the server obtains its net.Listener. The
// context covers listener creation only; the listener's lifetime is owned by
// the HTTP server.
type ListenerProvider interface {
	Listen(ctx context.Context, network string, address string) (net.Listener, error)
}

// TCPProvider is the production provider: a plain TCP listener on the
// configured address.
type TCPProvider struct{}

func (TCPProvider) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, network, address)
}

// LoopbackProvider listens on an ephemeral loopback port and records the
// bound address, so tests never race over fixed ports.
type LoopbackProvider struct {
	mu   sync.Mutex
	addr string
}

func (p *LoopbackProvider) Listen(ctx context.Context, network, _ string) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, network, "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.addr = ln.Addr().String()
	p.mu.Unlock()
	return ln, nil
}

// Addr returns the bound address of the last listener, empty before the
// first Listen call.
func (p *LoopbackProvider) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addr
}

// Server wraps *http.Server, taking its listener from a ListenerProvider.
type Server struct {
	*http.Server

	// Provider supplies the network listener. Must not be nil when calling
	// Serve.
	Provider ListenerProvider
}

// NewServer constructs a Server around s. A nil s yields a default
// http.Server.
func NewServer(s *http.Server, provider ListenerProvider) *Server {
	if s == nil {
		s = &http.Server{}
	}
	return &Server{Server: s, Provider: provider}
}

// Serve obtains a listener from the Provider and serves handler on it until
// Shutdown. A graceful shutdown returns nil.
func (s *Server) Serve(ctx context.Context, handler http.Handler) error {
	if s.Provider == nil {
		return fmt.Errorf("lnhttp: Provider is nil")
	}

	address := s.Addr
	if address == "" {
		address = ":http"
	}

	ln, err := s.Provider.Listen(ctx, "tcp", address)
	if err != nil {
		return err
	}

	s.Handler = handler
	if err := s.Server.Serve(ln); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}
