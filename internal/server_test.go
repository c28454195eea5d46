package internal

import (
	"net/http"
	"testing"

	"github.com/mirojov/clubhub/internal/auth"
	"github.com/mirojov/clubhub/internal/blog"
	"github.com/mirojov/clubhub/internal/config"
	"github.com/mirojov/clubhub/internal/telemetry/metrics"
	"github.com/mirojov/clubhub/internal/uploads"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServerSetup(t *testing.T) *Server {
	t.Helper()

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	uploadsDiskApi, err := uploads.NewDiskApi(t.TempDir())
	require.NoError(t, err)

	return &Server{
		config: &config.Config{
			AllowedOrigins:              []string{"https://clubhub.example.com"},
			LoginRateLimitAllowedPerMin: 5,
		},
		redisClient:  rdb,
		authService:  auth.NewAuthService(&auth.Admin{Username: "admin"}, auth.DefaultTTL, rdb),
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),
		resetTokens:  auth.NewResetTokenStore(resetTokenTTL, rdb),

		uploadsDiskApi: uploadsDiskApi,
		blogCache:      blog.NewResponseCache(0),

		adminUsername:  "admin",
		metricsManager: metrics.NewTestManager(),
	}
}

func TestServer_RouterSetup(t *testing.T) {
	server := testServerSetup(t)
	router := server.routerSetup()

	registeredRoutes := make(map[string]bool)
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if name := route.GetName(); name != "" {
			registeredRoutes[name] = true
		}
		return nil
	})
	require.NoError(t, err)

	expectedRoutes := []string{
		"login", "logout", "me",
		"signup", "reset-password",
		"list-users", "update-user", "delete-user", "issue-reset-token",
		"list-audit",
		"list-blog", "get-blog-post", "list-blog-tags",
		"list-blog-admin", "create-blog", "update-blog", "delete-blog",
		"upload-image", "get-upload",
		"version", "unknown",
	}
	for _, name := range expectedRoutes {
		assert.True(t, registeredRoutes[name], "route not registered: %s", name)
	}
}

func TestServer_ConnStateMetrics(t *testing.T) {
	server := testServerSetup(t)

	server.connStateMetrics(nil, http.StateNew)
	server.connStateMetrics(nil, http.StateNew)
	assert.Equal(t, float64(2), testutil.ToFloat64(server.metricsManager.GaugeRequests))

	server.connStateMetrics(nil, http.StateActive)
	assert.Equal(t, float64(2), testutil.ToFloat64(server.metricsManager.GaugeRequests))

	server.connStateMetrics(nil, http.StateClosed)
	assert.Equal(t, float64(1), testutil.ToFloat64(server.metricsManager.GaugeRequests))
}
