package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AppMetrics records domain-level counters for the API.
type AppMetrics struct {
	catalogDuration     *prometheus.HistogramVec
	catalogCacheHits    *prometheus.CounterVec
	onboardingCompleted prometheus.Counter
	swipes              *prometheus.CounterVec
	matches             prometheus.Counter
	chatMessages        prometheus.Counter
	reconcileFallbacks  prometheus.Counter
}

// NewAppMetrics registers the application metrics on the provided registerer.
func NewAppMetrics(reg prometheus.Registerer) *AppMetrics {
	if reg == nil {
		return &AppMetrics{}
	}
	catalogDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Duration of upstream catalog requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	catalogCacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_requests",
		Help: "Catalog lookups partitioned by cache outcome.",
	}, []string{"outcome"})
	onboardingCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "onboarding_completed_total",
		Help: "Completed onboarding wizard runs.",
	})
	swipes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "swipes_total",
		Help: "Recorded swipes partitioned by direction.",
	}, []string{"direction"})
	matches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matches_total",
		Help: "Mutual matches created.",
	})
	chatMessages := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Chat messages accepted for delivery.",
	})
	reconcileFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "onboarding_reconcile_fallbacks_total",
		Help: "Onboarding state resolutions that fell back to showing the wizard.",
	})
	reg.MustRegister(catalogDuration, catalogCacheHits, onboardingCompleted, swipes, matches, chatMessages, reconcileFallbacks)
	return &AppMetrics{
		catalogDuration:     catalogDuration,
		catalogCacheHits:    catalogCacheHits,
		onboardingCompleted: onboardingCompleted,
		swipes:              swipes,
		matches:             matches,
		chatMessages:        chatMessages,
		reconcileFallbacks:  reconcileFallbacks,
	}
}

// ObserveCatalogRequest records the duration for the named upstream endpoint.
func (m *AppMetrics) ObserveCatalogRequest(endpoint string, duration time.Duration) {
	if m == nil || m.catalogDuration == nil {
		return
	}
	m.catalogDuration.WithLabelValues(normalizeLabel(endpoint)).Observe(duration.Seconds())
}

// IncCatalogCache counts one catalog lookup with the given cache outcome.
func (m *AppMetrics) IncCatalogCache(outcome string) {
	if m == nil || m.catalogCacheHits == nil {
		return
	}
	m.catalogCacheHits.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncOnboardingCompleted counts a finished onboarding wizard run.
func (m *AppMetrics) IncOnboardingCompleted() {
	if m == nil || m.onboardingCompleted == nil {
		return
	}
	m.onboardingCompleted.Inc()
}

// IncSwipe counts one swipe in the given direction.
func (m *AppMetrics) IncSwipe(direction string) {
	if m == nil || m.swipes == nil {
		return
	}
	m.swipes.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncMatch counts one mutual match.
func (m *AppMetrics) IncMatch() {
	if m == nil || m.matches == nil {
		return
	}
	m.matches.Inc()
}

// IncChatMessage counts one accepted chat message.
func (m *AppMetrics) IncChatMessage() {
	if m == nil || m.chatMessages == nil {
		return
	}
	m.chatMessages.Inc()
}

// IncReconcileFallback counts a state resolution that defaulted to the wizard.
func (m *AppMetrics) IncReconcileFallback() {
	if m == nil || m.reconcileFallbacks == nil {
		return
	}
	m.reconcileFallbacks.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
