package metrics_test

import (
	"testing"

	"github.com/shopscope/shopscope/pkg/metrics"
)

func TestCTRComponent_HalfBenchmark(t *testing.T) {
	m := &metrics.CTRComponent{Weight: 0.25, Target: 0.02}

	card := &metrics.Scorecard{
		Views:  1000,
		Visits: 10,
		CTR:    metrics.NewRate(10, 1000), // 1% against a 2% target
	}

	result := m.Evaluate(card)

	// ratio = 0.01/0.02 = 0.5 -> score 50, weighted 0.25*50 = 12.5
	if result.Score != 50 {
		t.Errorf("expected score 50, got %f", result.Score)
	}
	if result.Weighted != 12.5 {
		t.Errorf("expected weighted 12.5, got %f", result.Weighted)
	}
	if result.Severity != metrics.SeverityMedium {
		t.Errorf("expected MEDIUM at exactly half benchmark, got %s", result.Severity)
	}
}

func TestCTRComponent_SeverityEscalation(t *testing.T) {
	m := &metrics.CTRComponent{Weight: 0.25, Target: 0.02}

	card := &metrics.Scorecard{
		Views:  1000,
		Visits: 8,
		CTR:    metrics.NewRate(8, 1000), // 0.8%: under half the benchmark
	}

	result := m.Evaluate(card)

	if result.Severity != metrics.SeverityHigh {
		t.Errorf("expected HIGH under half benchmark, got %s", result.Severity)
	}
}

func TestCTRComponent_OverBenchmarkCapsAtFull(t *testing.T) {
	m := &metrics.CTRComponent{Weight: 0.25, Target: 0.02}

	card := &metrics.Scorecard{
		Views:  100,
		Visits: 10,
		CTR:    metrics.NewRate(10, 100), // 10%: five times the target
	}

	result := m.Evaluate(card)

	if result.Score != 100 {
		t.Errorf("expected capped score 100, got %f", result.Score)
	}
	if result.Severity != metrics.SeverityLow {
		t.Errorf("expected LOW severity, got %s", result.Severity)
	}
}
