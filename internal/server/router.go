package server

import (
	"time"

	"github.com/gin-contrib/sessions"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-ellarises/internal/app/middleware"
	"github.com/FACorreiaa/go-ellarises/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-ellarises/internal/pkg/config"
	"github.com/FACorreiaa/go-ellarises/internal/routes"
)

// RouterDeps is everything SetupRouter needs. Store and Repos are swapped for in-memory versions in tests.
type RouterDeps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.AppMetrics
	Store   sessions.Store
	Repos   routes.Repositories
}

// SetupRouter configures the global pipeline and registers every route group.
func SetupRouter(deps RouterDeps) (*gin.Engine, error) {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(ginzap.CustomRecoveryWithZap(deps.Logger, true, middleware.Recover))
	r.Use(ginzap.GinzapWithConfig(deps.Logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(middleware.OTELGinMiddleware(deps.Config.Observability.ServiceName))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityMiddleware())
	r.Use(middleware.BodyLimit(deps.Config.MaxBodyBytes))
	r.Use(middleware.ErrorHandler(deps.Logger))

	// Static files are served before the session middleware is attached.
	if err := SetupAssets(r); err != nil {
		return nil, err
	}

	r.Use(sessions.Sessions(deps.Config.Session.Name, deps.Store))
	r.Use(middleware.SessionState())
	r.Use(middleware.CSRF())

	handlers := routes.NewHandlers(deps.Repos, deps.Config, deps.Metrics, deps.Logger)
	routes.Setup(r, handlers)

	return r, nil
}

// zapContextFunc adds the request id and OTEL trace/span ids to each access log line.
// Request bodies are never logged since they carry passwords.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get(middleware.RequestIDHeader); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		return fields
	}
}
