// Package metrics provides the centralized Prometheus metrics reference for
// the billing client. All metrics are defined in their owning packages
// (client, ratelimit) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the billing client.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - billing_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - billing_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - billing_errors_total{class} (Counter): Errors by class (client, validation, server, rate_limit, network)
//   - billing_transaction_failures_total{error_code} (Counter): Declined payment attempts by gateway error code
//
// Rate Limit Metrics (pkg/ratelimit):
//   - billing_rate_limit_remaining (Gauge): Requests remaining in the current quota window
//   - billing_rate_limit_blocks_total (Counter): Requests blocked due to critical quota
//   - billing_rate_limit_throttles_total (Counter): Requests throttled due to low quota
//
// Example Prometheus Queries:
//
//   # Request Error Rate
//   rate(billing_errors_total[5m])
//
//   # Quota Headroom
//   billing_rate_limit_remaining < 100
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(billing_request_duration_seconds_bucket[5m]))
//
//   # Fraud Decline Rate
//   rate(billing_transaction_failures_total{error_code=~"fraud.*"}[1h])
