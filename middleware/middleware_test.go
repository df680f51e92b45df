package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GodwinCyber/alx-project-nexus/internal/auth"
	"github.com/GodwinCyber/alx-project-nexus/pkg/ctxmanage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, keys *auth.Keys, seen *auth.Identity, trace *string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m, err := NewMid(keys)
	require.NoError(t, err)

	r := gin.New()
	r.Use(Logger(), m.Authentication())
	r.GET("/who", func(c *gin.Context) {
		*seen = auth.FromContext(c.Request.Context())
		*trace = ctxmanage.GetTraceIdOfRequest(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthentication(t *testing.T) {
	keys, err := auth.NewKeys("secret", time.Minute, time.Hour)
	require.NoError(t, err)
	access, refresh, err := keys.GenerateTokens(7, []string{auth.RoleUser})
	require.NoError(t, err)

	tt := []struct {
		name   string
		header string
		want   int64
	}{
		{"valid access token", "Bearer " + access, 7},
		{"no header", "", 0},
		{"refresh token", "Bearer " + refresh, 0},
		{"garbage", "Bearer abc.def.ghi", 0},
		{"wrong scheme", "Basic " + access, 0},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var (
				seen  auth.Identity
				trace string
			)
			r := newRouter(t, keys, &seen, &trace)
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, seen.UserID)
			assert.NotEmpty(t, trace)
			assert.Equal(t, trace, rec.Header().Get(TraceHeader))
		})
	}
}

func TestLoggerKeepsIncomingTraceID(t *testing.T) {
	keys, err := auth.NewKeys("secret", time.Minute, time.Hour)
	require.NoError(t, err)
	var (
		seen  auth.Identity
		trace string
	)
	r := newRouter(t, keys, &seen, &trace)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(TraceHeader, "abc-123")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc-123", trace)
}

func TestNewMidNilKeys(t *testing.T) {
	_, err := NewMid(nil)
	assert.Error(t, err)
}
