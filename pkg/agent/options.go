package agent

import (
	ginprometheus "github.com/zsais/go-gin-prometheus"

	"github.com/easelgate/easelgate/pkg/lnhttp"
)

// Option configures a Server.
type Option func(*Server)

// WithDebug switches gin into debug mode with verbose logging.
func WithDebug(enable bool) Option {
	return func(s *Server) {
		s.debug = enable
	}
}

// WithAddr sets the listen address, default :8321.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithPrometheusMiddleware reuses an existing prometheus middleware instead
// of registering a fresh collector, so tests can build many servers inside
// one process.
func WithPrometheusMiddleware(p *ginprometheus.Prometheus) Option {
	return func(s *Server) {
		s.prom = p
	}
}

// WithListenerProvider swaps the TCP listener for a custom one, used by
// tests to serve on an ephemeral loopback port.
func WithListenerProvider(p lnhttp.ListenerProvider) Option {
	return func(s *Server) {
		s.srv = lnhttp.NewServer(nil, p)
	}
}
