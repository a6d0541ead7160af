package utils

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewO11yGin builds a gin router with the standard observability stack:
// otelgin tracing, ginzap request logging into the global zap logger, and
// per-route prometheus metrics under routerName. A non-nil prom is reused
// instead of registering a fresh collector, which lets tests share one
// across many routers.
func NewO11yGin(routerName string, debug bool, prom *ginprometheus.Prometheus) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(otelgin.Middleware(routerName))
	router.Use(ginzap.GinzapWithConfig(otelzap.L(), &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context: func(c *gin.Context) []zapcore.Field {
			var fields []zapcore.Field
			if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
				fields = append(fields, zap.String("request_id", requestID))
			}

			if span := trace.SpanFromContext(c.Request.Context()).SpanContext(); span.IsValid() {
				fields = append(fields, zap.String("trace_id", span.TraceID().String()))
				fields = append(fields, zap.String("span_id", span.SpanID().String()))
			}
			return fields
		},
	}))

	if prom == nil {
		prom = ginprometheus.NewPrometheus(routerName)
	}
	prom.Use(router)

	return router
}
