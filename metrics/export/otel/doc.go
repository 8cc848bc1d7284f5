// Package otel publishes shopAuth metrics through OpenTelemetry.
//
// [NewExporter] registers an Int64ObservableCounter per counter and an
// Int64ObservableGauge per latency bucket, all fed by a single callback
// that reads MetricsSnapshot on each collection. Callers own the
// MeterProvider.
package otel
