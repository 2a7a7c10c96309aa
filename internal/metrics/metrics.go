package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RPC Metrics
var (
	RPCBatchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_batch_requests_total",
		Help: "The total number of JSON-RPC batch requests sent, by method",
	}, []string{"method"})

	RPCBatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_batch_failures_total",
		Help: "The total number of JSON-RPC batch requests that failed as a whole, by method",
	}, []string{"method"})

	RPCBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rpc_batch_duration_seconds",
		Help:    "Time taken by a single JSON-RPC batch request",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	LastFetchedBlock = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rpc_last_fetched_block",
		Help: "The highest block number fetched from the RPC",
	})
)

// Watcher Metrics
var (
	ChainHead = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "watcher_chain_head",
		Help: "The latest block number reported by the RPC",
	})

	WatchedBlocks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "watcher_blocks_total",
		Help: "The total number of blocks emitted by the watcher",
	})
)

// Formatter Metrics
var (
	FormattedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formatter_records_total",
		Help: "The total number of records formatted, by kind",
	}, []string{"kind"})

	FormatFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "formatter_failures_total",
		Help: "The total number of records rejected by the formatter, by kind",
	}, []string{"kind"})

	MissingRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rpc_missing_records_total",
		Help: "The total number of keys the RPC answered with null, by kind",
	}, []string{"kind"})
)
