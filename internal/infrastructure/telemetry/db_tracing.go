// Package telemetry provides OpenTelemetry integration for distributed tracing.
package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database query tracing.
type DBTracingConfig struct {
	Enabled          bool          // Enable database tracing
	LogFullSQL       bool          // Include SQL statements with variables in spans (dev only)
	SlowQueryThresh  time.Duration // Queries above this duration get the slow_query mark
	DBSystem         string        // Database system name (default: "postgresql")
	WithoutVariables bool          // Exclude query variables from the recorded SQL
}

// DBTracingPlugin registers otelgorm on a GORM instance plus timing
// callbacks that mark slow queries and attach row counts to spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm installs the otelgorm plugin and the slow-query
// callbacks on db. A no-op when tracing is disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		// Keep bind variables out of spans: customer names, phones and
		// addresses flow through these queries
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

// registerTimingCallbacks hooks every GORM operation with a start-time
// marker before, and the span inspection after.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("otel_timing:before_create", p.markStart),
		cb.Create().After("gorm:create").Register("otel_timing:after_create", p.inspectQuery),
		cb.Query().Before("gorm:query").Register("otel_timing:before_query", p.markStart),
		cb.Query().After("gorm:query").Register("otel_timing:after_query", p.inspectQuery),
		cb.Update().Before("gorm:update").Register("otel_timing:before_update", p.markStart),
		cb.Update().After("gorm:update").Register("otel_timing:after_update", p.inspectQuery),
		cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", p.markStart),
		cb.Delete().After("gorm:delete").Register("otel_timing:after_delete", p.inspectQuery),
		cb.Row().Before("gorm:row").Register("otel_timing:before_row", p.markStart),
		cb.Row().After("gorm:row").Register("otel_timing:after_row", p.inspectQuery),
		cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", p.markStart),
		cb.Raw().After("gorm:raw").Register("otel_timing:after_raw", p.inspectQuery),
	}
	for _, err := range registrations {
		if err != nil {
			return err
		}
	}
	return nil
}

// markStart stamps the query start time into the statement context.
func (p *DBTracingPlugin) markStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// inspectQuery runs after each operation: it attaches row count and
// table name to the active span, records real errors, and flags queries
// that exceeded the slow threshold.
func (p *DBTracingPlugin) inspectQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// ErrRecordNotFound is an ordinary lookup miss, not a failure
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}

// queryStartTimeKey is the context key for the query start time.
type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"
