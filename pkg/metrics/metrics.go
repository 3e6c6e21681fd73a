package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Метрики консьюмера внутреннего топика адаптера.
var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
)

// Метрики маршрутизации команд (по тенантам).
var (
	CommandsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_router_commands_received_total",
			Help: "Commands fetched from tenant command topics",
		},
		[]string{"tenant"},
	)
	CommandsForwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_router_commands_forwarded_total",
			Help: "Commands published to internal adapter topics",
		},
		[]string{"tenant"},
	)
	CommandsAbandoned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_router_commands_abandoned_total",
			Help: "Commands dropped without commit because the pipeline stopped",
		},
		[]string{"tenant"},
	)
	ResolutionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_router_resolution_failures_total",
			Help: "Commands skipped because no target adapter instance was found",
		},
		[]string{"tenant", "reason"}, // not_found|timeout|unroutable|error
	)
	ForwardFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "command_router_forward_failures_total",
			Help: "Failed attempts to publish a batch to an internal topic",
		},
		[]string{"tenant"},
	)
	PendingCommands = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "command_router_pending_commands",
			Help: "Commands received but not yet committed",
		},
		[]string{"tenant"},
	)
	CommittedOffset = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "command_router_committed_offset",
			Help: "Last committed offset per tenant topic partition",
		},
		[]string{"tenant", "partition"},
	)
	PipelineHealthy = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "command_router_pipeline_healthy",
			Help: "1 if the tenant pipeline forwards successfully, 0 otherwise",
		},
		[]string{"tenant"},
	)
	ActiveConsumers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "command_router_active_consumers",
			Help: "Number of running tenant command consumers",
		},
	)
	ResolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_router_resolve_duration_seconds",
			Help:    "Latency of command target resolution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"}, // ok|error
	)
)

// Метрики кэша тенантов.
var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister регистрирует метрики в глобальном реестре; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed,
			CommandsReceived, CommandsForwarded, CommandsAbandoned,
			ResolutionFailures, ForwardFailures,
			PendingCommands, CommittedOffset, PipelineHealthy, ActiveConsumers,
			ResolveDuration,
			CacheOps, CacheSize,
		)
	})
}
