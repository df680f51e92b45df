package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/middleware"
	"github.com/GodwinCyber/alx-project-nexus/pkg/ctxmanage"
	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

const MaxBodyBytes = int64(1 << 20)

// StatusChecker reports whether the service can reach its dependencies.
type StatusChecker interface {
	Refresh(ctx context.Context) error
}

type Handler struct {
	gql     *relay.Handler
	checker StatusChecker
	metrics http.Handler
}

func NewHandler(schema *graphql.Schema, checker StatusChecker, metrics http.Handler) *Handler {
	return &Handler{
		gql:     &relay.Handler{Schema: schema},
		checker: checker,
		metrics: metrics,
	}
}

func API(endpointPrefix string, k *auth.Keys, schema *graphql.Schema, checker StatusChecker, metrics http.Handler) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	m, err := middleware.NewMid(k)
	if err != nil {
		panic(err)
	}

	h := NewHandler(schema, checker, metrics)
	r.Use(middleware.Logger(), gin.Recovery())

	r.GET("/ping", h.HealthCheck)
	r.GET("/metrics", gin.WrapH(h.metrics))

	v1 := r.Group(endpointPrefix)
	{
		v1.Use(m.Authentication())
		v1.POST("/graphql", h.GraphQL)
	}
	return r
}

func (h *Handler) HealthCheck(c *gin.Context) {
	if err := h.checker.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// GraphQL serves queries and mutations. Domain failures are reported inside
// the response body, so the status is 200 unless the request itself is bad.
func (h *Handler) GraphQL(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	slog.Info("graphql request", slog.String(logkey.TraceID, traceId),
		slog.Bool("authenticated", !auth.FromContext(c.Request.Context()).Anonymous()))
	h.gql.ServeHTTP(c.Writer, c.Request)
}
