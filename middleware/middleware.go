package middleware

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/pkg/ctxmanage"
	"github.com/GodwinCyber/alx-project-nexus/pkg/logkey"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-Id"

type Mid struct {
	k *auth.Keys
}

func NewMid(k *auth.Keys) (*Mid, error) {
	if k == nil {
		return nil, errors.New("keys cannot be nil")
	}
	return &Mid{k: k}, nil
}

// Logger tags every request with a trace id and logs its outcome.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetHeader(TraceHeader)
		if traceId == "" {
			traceId = uuid.NewString()
		}
		c.Request = c.Request.WithContext(ctxmanage.WithTraceID(c.Request.Context(), traceId))
		c.Header(TraceHeader, traceId)

		start := time.Now()
		slog.Info("started", slog.String(logkey.TraceID, traceId),
			slog.String("Method", c.Request.Method), slog.String("URL Path", c.Request.URL.Path))

		c.Next()

		slog.Info("completed", slog.String(logkey.TraceID, traceId),
			slog.String("Method", c.Request.Method), slog.String("URL Path", c.Request.URL.Path),
			slog.Int("Status Code", c.Writer.Status()), slog.Int64("Latency ms", time.Since(start).Milliseconds()))
	}
}

// Authentication resolves the bearer token into an auth.Identity on the
// request context. Requests without a usable token continue anonymously;
// operations that need a user reject them further down.
func (m *Mid) Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := ctxmanage.GetTraceIdOfRequest(c)
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			slog.Warn("malformed authorization header", slog.String(logkey.TraceID, traceId))
			c.Next()
			return
		}

		claims, err := m.k.ValidateToken(parts[1])
		if err != nil {
			slog.Warn("invalid token", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.Next()
			return
		}
		id, err := auth.IdentityFromClaims(claims)
		if err != nil {
			slog.Warn("invalid token subject", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), id))
		c.Next()
	}
}
