package di

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldwise/internal/config"
	"github.com/aristath/yieldwise/internal/domain"
	testingpkg "github.com/aristath/yieldwise/internal/testing"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataDir: t.TempDir(),
		Port:    8080,
		Redis:   config.RedisConfig{TTL: time.Hour},
		RentModel: config.RentModelConfig{
			Timeout: time.Second,
		},
	}
}

func wire(t *testing.T, cfg *config.Config) (*Container, *JobInstances) {
	t.Helper()
	container, jobs, err := Wire(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	return container, jobs
}

func TestInitializeDatabase(t *testing.T) {
	cfg := testConfig(t)

	container, err := InitializeDatabase(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.DB)
	assert.FileExists(t, filepath.Join(cfg.DataDir, "comparables.db"))
}

func TestWire_Minimal(t *testing.T) {
	container, jobs := wire(t, testConfig(t))

	assert.NotNil(t, container.AnalysisService)
	assert.NotNil(t, container.Importer)
	assert.NotNil(t, container.Telemetry)
	assert.Nil(t, container.RentModel)
	assert.Nil(t, container.Redis)
	assert.Nil(t, container.ObjectStore)

	assert.NotNil(t, jobs.CheckDatabase)
	assert.Nil(t, jobs.ReloadComparables)
	assert.Equal(t, []string{"check_database"}, container.Scheduler.Jobs())

	// Nothing to estimate from: rent falls back to the price ratio
	svc := container.AnalysisService
	req := svc.NewRequest()
	req.Property = domain.PropertyInput{Address: "1 Main St", Price: 200000, Beds: 3, Baths: 2, Sqft: 1500}
	report, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.RentSourceFallback, report.Rent.Source)
	assert.InDelta(t, 1600, report.Rent.Point, 1e-9)
}

func TestWire_FullStack(t *testing.T) {
	mr := miniredis.RunT(t)

	modelCalls := 0
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		modelCalls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_rent": 2100}`))
	}))
	defer model.Close()

	cfg := testConfig(t)
	source := testingpkg.WriteSalesCSV(t, testingpkg.SalesCSV)
	cfg.RentModel.URL = model.URL
	cfg.Redis.Addr = mr.Addr()
	cfg.Comparables.Source = source
	cfg.Comparables.ReloadSchedule = "@daily"

	container, jobs := wire(t, cfg)
	require.NotNil(t, container.RentModel)
	require.NotNil(t, container.Redis)
	require.NotNil(t, jobs.ReloadComparables)
	assert.ElementsMatch(t, []string{"check_database", "reload_comparables"}, container.Scheduler.Jobs())

	require.NoError(t, jobs.ReloadComparables.Run())
	count, err := container.ComparablesRepo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	svc := container.AnalysisService
	req := svc.NewRequest()
	req.Property = domain.PropertyInput{Address: "9 Main St", Price: 200000, Beds: 3, Baths: 2, Sqft: 1500}

	first, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.RentSourceModel, first.Rent.Source)
	assert.Equal(t, 2100.0, first.Rent.Point)

	second, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.RentSourceCache, second.Rent.Source)
	assert.Equal(t, 1, modelCalls)

	assert.Equal(t, "found", string(second.Comparables.Status))
}

func TestWire_InvalidProfile(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProfilePath = filepath.Join(t.TempDir(), "profile.toml")
	require.NoError(t, os.WriteFile(cfg.ProfilePath, []byte("[defaults.financing]\ndown_payment_pct = 150\n"), 0o644))

	_, _, err := Wire(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "failed to load profile")
}
