package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAppMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAppMetrics(reg)

	metrics.ObserveCatalogRequest("search", 120*time.Millisecond)
	metrics.IncCatalogCache("hit")
	metrics.IncCatalogCache("miss")
	metrics.IncOnboardingCompleted()
	metrics.IncSwipe("right")
	metrics.IncMatch()
	metrics.IncChatMessage()
	metrics.IncReconcileFallback()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "catalog_cache_requests", "outcome", "hit"); err != nil {
		t.Fatalf("fetch cache hit: %v", err)
	} else if got != 1 {
		t.Fatalf("expected hit=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "swipes_total", "direction", "right"); err != nil {
		t.Fatalf("fetch swipes: %v", err)
	} else if got != 1 {
		t.Fatalf("expected swipes=1, got %f", got)
	}

	for _, name := range []string{"onboarding_completed_total", "matches_total", "chat_messages_total", "onboarding_reconcile_fallbacks_total"} {
		mf := findMetricFamily(mfs, name)
		if mf == nil {
			t.Fatalf("metric %q not found", name)
		}
		if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
			t.Fatalf("expected %s=1, got %f", name, got)
		}
	}

	if got, err := fetchHistogramSum(mfs, "catalog_request_duration_seconds", "endpoint", "search"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestAppMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewAppMetrics(nil)
	metrics.ObserveCatalogRequest("search", time.Second)
	metrics.IncCatalogCache("hit")
	metrics.IncOnboardingCompleted()
	metrics.IncSwipe("left")
	metrics.IncMatch()
	metrics.IncChatMessage()
	metrics.IncReconcileFallback()
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
