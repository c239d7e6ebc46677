package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newDBMetricsForTest(t *testing.T, cfg DBMetricsConfig) (*DBMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := NewDBMetrics(provider.Meter("db.client"), cfg, nil)
	require.NoError(t, err)
	return metrics, reader
}

func gatherMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) (metricdata.Metrics, bool) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestNewDBMetricsAppliesDefaults(t *testing.T) {
	metrics, _ := newDBMetricsForTest(t, DBMetricsConfig{Enabled: true})

	assert.Equal(t, 200*time.Millisecond, metrics.config.SlowQueryThreshold)
	assert.Equal(t, 15*time.Second, metrics.config.PoolStatsInterval)
}

func TestRecordQueryCountsAndLatency(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t, DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: time.Second,
	})

	ctx := context.Background()
	metrics.RecordQuery(ctx, "select", "orders", 10*time.Millisecond)
	metrics.RecordQuery(ctx, "", "orders", 5*time.Millisecond)

	m, ok := gatherMetric(t, reader, "db_query_total")
	require.True(t, ok)
	sum := m.Data.(metricdata.Sum[int64])
	// Lowercase and empty operations are normalized to SELECT / UNKNOWN.
	require.Len(t, sum.DataPoints, 2)
	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value(AttrDBOperation)
		assert.Contains(t, []string{"SELECT", "UNKNOWN"}, op.AsString())
	}

	// Both queries were under the threshold.
	_, ok = gatherMetric(t, reader, "db_slow_query_total")
	assert.False(t, ok)
}

func TestRecordQueryFlagsSlowQueries(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t, DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: time.Millisecond,
	})

	metrics.RecordQuery(context.Background(), "SELECT", "order_items", 50*time.Millisecond)

	m, ok := gatherMetric(t, reader, "db_slow_query_total")
	require.True(t, ok)
	sum := m.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	table, _ := sum.DataPoints[0].Attributes.Value(AttrDBTable)
	assert.Equal(t, "order_items", table.AsString())
}

func TestDBMetricsPluginRecordsQueries(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t, DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: time.Minute,
	})

	db := openTracedDB(t)
	require.NoError(t, db.Use(NewDBMetricsPlugin(metrics, nil)))

	require.NoError(t, db.Create(&tracedProduct{Name: "Brigadeiro"}).Error)
	var products []tracedProduct
	require.NoError(t, db.Find(&products).Error)

	m, ok := gatherMetric(t, reader, "db_query_total")
	require.True(t, ok)
	sum := m.Data.(metricdata.Sum[int64])

	seen := map[string]int64{}
	for _, dp := range sum.DataPoints {
		op, _ := dp.Attributes.Value(AttrDBOperation)
		seen[op.AsString()] = dp.Value
	}
	assert.Equal(t, int64(1), seen["INSERT"])
	assert.Equal(t, int64(1), seen["SELECT"])

	m, ok = gatherMetric(t, reader, "db_query_duration_seconds")
	require.True(t, ok)
	hist := m.Data.(metricdata.Histogram[float64])
	assert.NotEmpty(t, hist.DataPoints)
}

func TestPoolStatsCollection(t *testing.T) {
	metrics, reader := newDBMetricsForTest(t, DBMetricsConfig{
		Enabled:           true,
		PoolStatsInterval: time.Hour, // rely on the immediate first sample
	})

	db := openTracedDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	metrics.SetSQLDB(sqlDB)

	metrics.StartPoolStatsCollection(context.Background())
	t.Cleanup(metrics.Stop)

	require.Eventually(t, func() bool {
		_, ok := gatherMetric(t, reader, "db_pool_connections")
		return ok
	}, time.Second, 10*time.Millisecond)

	m, _ := gatherMetric(t, reader, "db_pool_connections")
	gauge := m.Data.(metricdata.Gauge[int64])
	states := map[string]bool{}
	for _, dp := range gauge.DataPoints {
		state, _ := dp.Attributes.Value(AttrDBState)
		states[state.AsString()] = true
	}
	assert.True(t, states["idle"])
	assert.True(t, states["in_use"])
	assert.True(t, states["open"])
}

func TestPoolStatsCollectionWithoutSQLDB(t *testing.T) {
	metrics, _ := newDBMetricsForTest(t, DBMetricsConfig{Enabled: true})

	// Without SetSQLDB no goroutine starts; Stop remains safe.
	metrics.StartPoolStatsCollection(context.Background())
	metrics.Stop()
	metrics.Stop()
}

func TestRegisterDBMetricsDisabled(t *testing.T) {
	db := openTracedDB(t)

	metrics, err := RegisterDBMetrics(db, nil, DBMetricsConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, metrics)

	// A nil meter provider also skips registration.
	metrics, err = RegisterDBMetrics(db, nil, DBMetricsConfig{Enabled: true}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, metrics)
}

func TestDetectOperationType(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM orders":               "SELECT",
		"  insert into carts values (1)":     "INSERT",
		"UPDATE products SET status = $1":    "UPDATE",
		"delete from order_items where 1=1":  "DELETE",
		"TRUNCATE idempotency_keys":          "OTHER",
		"":                                   "OTHER",
	}
	for sql, want := range cases {
		assert.Equal(t, want, detectOperationType(sql), sql)
	}
}
