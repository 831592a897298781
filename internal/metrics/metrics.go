// Package metrics holds the prometheus collectors of the page builder.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

var (
	GrpcRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagebuilder_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "code"},
	)

	GrpcRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pagebuilder_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	GrpcRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pagebuilder_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	BuilderOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagebuilder_builder_operations_total",
			Help: "Page builder workflows by outcome",
		},
		[]string{"operation", "outcome"},
	)

	VersionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pagebuilder_versions_created_total",
			Help: "Total number of page versions created",
		},
	)

	VersionsRestoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pagebuilder_versions_restored_total",
			Help: "Total number of page versions restored",
		},
	)

	VersionsPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pagebuilder_versions_pruned_total",
			Help: "Total number of page versions removed by retention",
		},
	)

	PagesRepairedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pagebuilder_pages_repaired_total",
			Help: "Total number of pages whose block positions were re-packed",
		},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagebuilder_cache_lookups_total",
			Help: "Block list cache lookups by result",
		},
		[]string{"result"},
	)

	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagebuilder_job_runs_total",
			Help: "Background job runs by outcome",
		},
		[]string{"job", "outcome"},
	)
)

// Outcome labels a finished operation.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// UnaryServerInterceptor records request counts and durations per method.
func UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		GrpcRequestsInFlight.Inc()
		defer GrpcRequestsInFlight.Dec()

		start := time.Now()
		resp, err := handler(ctx, req)

		GrpcRequestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		GrpcRequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()

		return resp, err
	}
}
