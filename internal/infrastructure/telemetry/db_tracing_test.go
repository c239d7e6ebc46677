package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedProduct struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100"`
	CreatedAt time.Time
}

func openTracedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedProduct{}))

	return db
}

func newSpanRecorder() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)), sr
}

func TestNewDBTracingPluginDefaultsDBSystem(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())
	assert.Equal(t, "postgresql", p.config.DBSystem)

	p = NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())
	assert.Equal(t, "sqlite", p.config.DBSystem)
}

func TestRegisterOtelGormDisabled(t *testing.T) {
	db := openTracedDB(t)

	p := NewDBTracingPlugin(DBTracingConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, p.RegisterOtelGorm(db))

	// No callbacks were installed, queries still work
	require.NoError(t, db.Create(&tracedProduct{Name: "Pizza Margherita"}).Error)
}

func TestRegisterOtelGormEnabled(t *testing.T) {
	db := openTracedDB(t)

	p := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		DBSystem:        "sqlite",
		SlowQueryThresh: 200 * time.Millisecond,
	}, zap.NewNop())
	require.NoError(t, p.RegisterOtelGorm(db))

	// Second registration fails: gorm rejects duplicate callback names
	assert.Error(t, p.RegisterOtelGorm(db))
}

func TestInspectQueryAttachesRowAndTableAttributes(t *testing.T) {
	db := openTracedDB(t)
	tp, sr := newSpanRecorder()

	p := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		DBSystem:        "sqlite",
		SlowQueryThresh: time.Minute,
	}, zap.NewNop())
	require.NoError(t, p.registerTimingCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "catalog.create_product")
	require.NoError(t, db.WithContext(ctx).Create(&tracedProduct{Name: "Pastel de Queijo"}).Error)
	span.End()

	attrs := attributeMap(sr.Ended()[0].Attributes())
	assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "traced_products", attrs["db.sql.table"].AsString())
	_, slow := attrs["db.slow_query"]
	assert.False(t, slow)
}

func TestInspectQueryFlagsSlowQueries(t *testing.T) {
	db := openTracedDB(t)
	tp, sr := newSpanRecorder()

	// Zero threshold makes every query slow
	p := NewDBTracingPlugin(DBTracingConfig{
		Enabled:  true,
		DBSystem: "sqlite",
	}, zap.NewNop())
	require.NoError(t, p.registerTimingCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "catalog.list_products")
	var products []tracedProduct
	require.NoError(t, db.WithContext(ctx).Find(&products).Error)
	span.End()

	recorded := sr.Ended()[0]
	attrs := attributeMap(recorded.Attributes())
	assert.True(t, attrs["db.slow_query"].AsBool())

	var found bool
	for _, ev := range recorded.Events() {
		if ev.Name == "slow_query_warning" {
			found = true
		}
	}
	assert.True(t, found, "expected a slow_query_warning event")
}

func TestInspectQueryRecordsErrors(t *testing.T) {
	db := openTracedDB(t)
	tp, sr := newSpanRecorder()

	p := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		DBSystem:        "sqlite",
		SlowQueryThresh: time.Minute,
	}, zap.NewNop())
	require.NoError(t, p.registerTimingCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "catalog.broken_query")
	db.WithContext(ctx).Exec("SELECT * FROM missing_table")
	span.End()

	assert.Equal(t, codes.Error, sr.Ended()[0].Status().Code)
}

func TestInspectQueryIgnoresRecordNotFound(t *testing.T) {
	db := openTracedDB(t)
	tp, sr := newSpanRecorder()

	p := NewDBTracingPlugin(DBTracingConfig{
		Enabled:         true,
		DBSystem:        "sqlite",
		SlowQueryThresh: time.Minute,
	}, zap.NewNop())
	require.NoError(t, p.registerTimingCallbacks(db))

	ctx, span := tp.Tracer("test").Start(context.Background(), "catalog.get_product")
	var product tracedProduct
	err := db.WithContext(ctx).First(&product, 999).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	span.End()

	assert.NotEqual(t, codes.Error, sr.Ended()[0].Status().Code)
}

func TestInspectQueryWithoutSpanIsNoop(t *testing.T) {
	db := openTracedDB(t)

	p := NewDBTracingPlugin(DBTracingConfig{
		Enabled:  true,
		DBSystem: "sqlite",
	}, zap.NewNop())
	require.NoError(t, p.registerTimingCallbacks(db))

	// No span in context: the callback must not panic
	require.NoError(t, db.WithContext(context.Background()).Create(&tracedProduct{Name: "Coxinha"}).Error)
}

func attributeMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}
