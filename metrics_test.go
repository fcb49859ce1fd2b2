package wordclass

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := NewMetrics(prometheus.NewRegistry(), "wordclass")
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMetrics(reg, "wc"); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMetrics(reg, "wc"); err == nil {
		t.Error("registering the same metrics twice should fail")
	}
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	var m *Metrics
	m.iteration("Exchange", 3, 1, 0.5)
	m.merge("window", 0.5)
}

func TestMetrics_ExchangeIterations(t *testing.T) {
	cfg := testConfig(1)
	cfg.Metrics = newTestMetrics(t)
	e, err := NewExchange(abcdCorpus(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.ClusterFrom(3, 10, []int{0, 1, 1, 2}, DefaultMinAMIChange); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(cfg.Metrics.ExchangeIterations); got != 2 {
		t.Errorf("iterations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(cfg.Metrics.ExchangeMoves); got != 1 {
		t.Errorf("moves = %v, want 1", got)
	}
	if got := testutil.ToFloat64(cfg.Metrics.RandomMoves); got != 0 {
		t.Errorf("random moves = %v, want 0", got)
	}
	if got := testutil.ToFloat64(cfg.Metrics.AMI.WithLabelValues("Exchange")); !almostEqual(got, e.CalculateAMI(), floatTol) {
		t.Errorf("AMI gauge = %v, want %v", got, e.CalculateAMI())
	}
}
