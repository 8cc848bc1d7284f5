// Package prometheus renders shopAuth counters and the authenticate latency
// histogram in Prometheus text exposition format.
//
// Mount [Exporter.Handler] on the scrape path. Nothing is registered in a
// global registry.
package prometheus
