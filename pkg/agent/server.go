// Package agent exposes the agent's state over HTTP: the computed
// suppression rule-set (as JSON and as an injectable stylesheet), the
// lockout window, and the identity enforcement is acting on.
package agent

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sierrasoftworks/humane-errors-go"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/easelgate/easelgate/internal/utils"
	"github.com/easelgate/easelgate/pkg/lnhttp"
	"github.com/easelgate/easelgate/pkg/lockout"
	"github.com/easelgate/easelgate/pkg/policy"
)

// @title Easelgate Agent API
// @version 1.0
// @description Status API of the easelgate access-control agent: suppression rule-set, lockout window, and effective identity.
// @BasePath /api/v1alpha1
const (
	ApiRouteV1Alpha1 = "/api/v1alpha1"
	RuleSetRoute     = "/ruleset"
	RuleSetCSSRoute  = "/ruleset.css"
	LockoutRoute     = "/lockout"
	WhoAmIRoute      = "/whoami"
)

// Server is the agent's status API server.
type Server struct {
	debug bool
	addr  string
	prom  *ginprometheus.Prometheus

	router *gin.Engine
	tracer trace.Tracer
	srv    *lnhttp.Server

	store *policy.Store
	ctrl  *lockout.Controller
}

// NewServer creates the status API server over the given policy store and
// lockout controller.
func NewServer(store *policy.Store, ctrl *lockout.Controller, opts ...Option) (*Server, humane.Error) {
	if store == nil || ctrl == nil {
		return nil, humane.New("agent server needs a policy store and a lockout controller",
			"Construct both before creating the server",
		)
	}

	s := &Server{
		debug:  false,
		addr:   ":8321",
		tracer: otel.Tracer("easelgate"),
		store:  store,
		ctrl:   ctrl,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = utils.NewO11yGin("easelgate_agent", s.debug, s.prom)

	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	v1alpha1 := s.router.Group(ApiRouteV1Alpha1)
	v1alpha1.GET(RuleSetRoute, s.getRuleSet)
	v1alpha1.GET(RuleSetCSSRoute, s.getRuleSetCSS)
	v1alpha1.GET(LockoutRoute, s.getLockout)
	v1alpha1.GET(WhoAmIRoute, s.getWhoAmI)

	httpSrv := &http.Server{
		Addr:              s.addr,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if s.srv == nil {
		s.srv = lnhttp.NewServer(httpSrv, lnhttp.TCPProvider{})
	} else {
		s.srv.Server = httpSrv
	}

	return s, nil
}

// Serve blocks serving the status API until Shutdown.
func (s *Server) Serve(ctx context.Context) humane.Error {
	if err := s.srv.Serve(ctx, s.router); err != nil {
		return humane.Wrap(err, "failed to serve agent API",
			"check that the configured address is free and bindable",
		)
	}
	return nil
}

// Shutdown gracefully stops the status API server.
func (s *Server) Shutdown(ctx context.Context) humane.Error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return humane.Wrap(err, "failed to shut down agent API")
	}
	return nil
}

// Engine returns the underlying gin router, for tests and embedding.
func (s *Server) Engine() *gin.Engine { return s.router }
