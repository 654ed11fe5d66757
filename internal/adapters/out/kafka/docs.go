// Package kafka publishes allocation events to Kafka.
//
// AllocationPublisher writes one allocation.recorded message per committed
// allocation, keyed by allocation id, through a gobreaker circuit breaker.
// NoopPublisher is used when no broker is configured.
package kafka
