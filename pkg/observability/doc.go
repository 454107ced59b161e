// Package observability provides structured logging, Prometheus metrics,
// dependency health checks, and graceful shutdown coordination.
package observability
