package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Fields are public so handlers and services can record directly.
type AppMetrics struct {
	DateSyncDurationSeconds metric.Float64Histogram
	DateSyncAppliedTotal    metric.Int64Counter
	DateSyncRejectedTotal   metric.Int64Counter
	TripCommitsTotal        metric.Int64Counter
	BulkImportRowsTotal     metric.Int64Counter
	DbQueryDurationSeconds  metric.Float64Histogram
	DbQueryErrorsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripConsole")
		var err error
		m := &AppMetrics{}

		m.DateSyncDurationSeconds, err = meter.Float64Histogram(
			"date_sync_duration_seconds",
			metric.WithDescription("Duration of trip date-range synchronizations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create date_sync_duration_seconds: %v", err)
		}

		m.DateSyncAppliedTotal, err = meter.Int64Counter(
			"date_sync_applied_total",
			metric.WithDescription("Total number of date-range changes applied to a trip"),
			metric.WithUnit("{change}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create date_sync_applied_total: %v", err)
		}

		m.DateSyncRejectedTotal, err = meter.Int64Counter(
			"date_sync_rejected_total",
			metric.WithDescription("Total number of date-range changes rejected or cancelled"),
			metric.WithUnit("{change}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create date_sync_rejected_total: %v", err)
		}

		m.TripCommitsTotal, err = meter.Int64Counter(
			"trip_commits_total",
			metric.WithDescription("Total number of wizard sessions committed as trips"),
			metric.WithUnit("{trip}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trip_commits_total: %v", err)
		}

		m.BulkImportRowsTotal, err = meter.Int64Counter(
			"bulk_import_rows_total",
			metric.WithDescription("Total number of rows processed by bulk imports"),
			metric.WithUnit("{row}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create bulk_import_rows_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
