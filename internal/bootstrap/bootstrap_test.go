package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registry/internal/config"
	"github.com/yigit/registry/internal/pkg/events"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Database.Driver = config.DriverMemory
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"
	cfg.Seed.AdminUsername = "admin"
	cfg.Seed.AdminPassword = "change-me-now"
	cfg.Seed.AdminEmail = "admin@registry.local"
	return cfg
}

func TestBuildDependenciesWithMemoryStore(t *testing.T) {
	cfg := memoryConfig()
	deps, err := BuildDependencies(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer deps.Close()

	assert.Nil(t, deps.DBPool)
	assert.IsType(t, events.Noop{}, deps.Publisher)

	admin, err := deps.Services.Admins.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "USER-0000001", admin.UserID)

	router, err := SetupRouter(cfg, deps, zerolog.Nop())
	require.NoError(t, err)

	for _, path := range []string{"/ping", "/metrics", "/api/v1/admins"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestSeedSkippedWithoutPassword(t *testing.T) {
	cfg := memoryConfig()
	cfg.Seed.AdminPassword = ""
	deps, err := BuildDependencies(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer deps.Close()

	admins, err := deps.Services.Admins.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, admins)
}

func TestSetupStoreRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.Database.Driver = "sqlite"
	_, _, err := SetupStore(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
