// Package metrics registers the prometheus counters that surface non-fatal
// anomalies: deduplicated tracking events, out-of-order arrivals, swallowed
// invalid transitions, quiet-hours suppressions and channel send failures are
// all observable here rather than raised as errors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// TrackingEventsDeduplicated counts tracking events dropped as duplicates,
	// labelled by carrier.
	TrackingEventsDeduplicated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_events_deduplicated_total",
			Help: "Tracking events ignored because they were already applied",
		},
		[]string{"carrier"},
	)

	// TrackingEventsOutOfOrder counts tracking events stored for audit without
	// advancing the current canonical status.
	TrackingEventsOutOfOrder = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_events_out_of_order_total",
			Help: "Tracking events that arrived after a later event was already applied",
		},
		[]string{"carrier"},
	)

	// TrackingUnmappedRawStatus counts raw carrier statuses that fell back to the
	// in_transit default because no mapping entry exists.
	TrackingUnmappedRawStatus = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_unmapped_raw_status_total",
			Help: "Raw carrier statuses with no canonical mapping",
		},
		[]string{"carrier"},
	)

	// InvalidTransitionsSwallowed counts order transitions rejected by the state
	// machine during tracking ingestion. Ingestion never fails on these.
	InvalidTransitionsSwallowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_invalid_transitions_swallowed_total",
			Help: "Invalid order transitions triggered by carrier events and ignored",
		},
		[]string{"carrier"},
	)

	// NotificationsSuppressed counts notifications suppressed by quiet hours,
	// labelled by channel.
	NotificationsSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_suppressed_quiet_hours_total",
			Help: "Non-urgent notifications suppressed inside a quiet-hours window",
		},
		[]string{"channel"},
	)

	// NotificationSendFailures counts per-channel send failures.
	NotificationSendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_send_failures_total",
			Help: "Channel sender failures, before retry accounting",
		},
		[]string{"channel"},
	)

	// PreferenceDefaultsApplied counts dispatches that fell back to the
	// documented default preferences because no record exists for the user.
	PreferenceDefaultsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_preference_defaults_applied_total",
			Help: "Dispatches resolved with default preferences",
		},
	)

	// CarrierBreakerOpen counts requests rejected by an open per-carrier circuit
	// breaker.
	CarrierBreakerOpen = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carrier_breaker_open_total",
			Help: "Carrier API calls short-circuited by an open breaker",
		},
		[]string{"carrier"},
	)
)

func init() {
	prometheus.MustRegister(
		TrackingEventsDeduplicated,
		TrackingEventsOutOfOrder,
		TrackingUnmappedRawStatus,
		InvalidTransitionsSwallowed,
		NotificationsSuppressed,
		NotificationSendFailures,
		PreferenceDefaultsApplied,
		CarrierBreakerOpen,
	)
}
