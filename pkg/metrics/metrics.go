package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "itemmodel"

	metricLabelHandler = "handler"
	metricLabelStatus  = "status"
	metricLabelSource  = "source"
	metricLabelRemote  = "remote"
	metricLabelKind    = "kind"
	metricLabelResult  = "result"
)

// Metrics is the structure that holds all prometheus metrics
var (
	// InvalidFlowRequests counts requests for flows that do not exist
	InvalidFlowRequests = newCounterVec(
		"invalid_flow_request_count",
		"Counts the number of requests for unknown flows",
	)
	// ServiceRequestCounter count the number of requests for each service function
	ServiceRequestCounter = newCounterVec(
		"service_request_count",
		"Count of requests for each handler",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// ServiceRequestDuration observe the duration of requests for each service function
	ServiceRequestDuration = newSummaryVec(
		"service_request_duration_seconds",
		"Seconds to unmarshal requests, execute a service function and marshal its reponses",
		metricLabelHandler, metricLabelStatus, metricLabelSource,
	)
	// UpdatesCompletedCounter count the number of successful updates
	UpdatesCompletedCounter = newCounterVec(
		"updates_completed_count",
		"Number of updates that were successfully completed",
	)
	// UpdatesFailedCounter count the number of updates that had an error
	UpdatesFailedCounter = newCounterVec(
		"updates_failed_count",
		"Number of updates that failed due to an error",
	)
	// UpdateDuration observe the duration of each repo.update() call
	UpdateDuration = newSummaryVec(
		"update_duration_seconds",
		"Duration in seconds for each successful repo.update() call",
	)
	// FlowsGauge number of flows currently served
	FlowsGauge = newGaugeVec(
		"flows_total",
		"Number of flows currently loaded",
	)
	// LocationsGauge number of locations across all flows
	LocationsGauge = newGaugeVec(
		"locations_total",
		"Number of location tree nodes across all loaded flows",
	)
	// NumSocketsGauge keep track of the total number of open sockets
	NumSocketsGauge = newGaugeVec(
		"num_sockets_total",
		"Total number of currently open socket connections",
		metricLabelRemote,
	)
	// HistoryPersistFailedCounter count the number of failed attempts to persist the flow history
	HistoryPersistFailedCounter = newCounterVec(
		"history_persist_failed_count",
		"Number of failures to store the flow history",
	)
	// ProgressUpdateCounter count applied progress updates per update kind
	ProgressUpdateCounter = newCounterVec(
		"progress_update_count",
		"Number of progress updates applied to item trackers",
		metricLabelKind,
	)
	// ProgressUpdateDroppedCounter count progress updates that could not be applied
	ProgressUpdateDroppedCounter = newCounterVec(
		"progress_update_dropped_count",
		"Number of progress updates for unknown items or completed trackers",
		metricLabelKind,
	)
	// ProgressCompletedCounter count items that completed per result
	ProgressCompletedCounter = newCounterVec(
		"progress_completed_count",
		"Number of item executions that completed",
		metricLabelResult,
	)
	// ProgressStalledCounter count trackers that were marked as stalled
	ProgressStalledCounter = newCounterVec(
		"progress_stalled_count",
		"Number of item trackers that stopped reporting progress",
	)
)

func newSummaryVec(name, help string, labels ...string) *prometheus.SummaryVec {
	vec := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, labels)
	prometheus.MustRegister(vec)
	return vec
}
