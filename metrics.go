package wordclass

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes clustering progress as Prometheus metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	ExchangeIterations prometheus.Counter
	ExchangeMoves      prometheus.Counter
	RandomMoves        prometheus.Counter
	BrownMerges        *prometheus.CounterVec
	AMI                *prometheus.GaugeVec
}

// NewMetrics creates the clustering metrics under namespace and registers
// them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := &Metrics{
		ExchangeIterations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchange_iterations_total",
				Help:      "Total number of completed Exchange passes over the vocabulary",
			},
		),
		ExchangeMoves: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchange_moves_total",
				Help:      "Total number of words relocated by Exchange",
			},
		),
		RandomMoves: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exchange_random_moves_total",
				Help:      "Total number of random relocations made by StochasticExchange",
			},
		),
		BrownMerges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "brown_merges_total",
				Help:      "Total number of Brown merges",
			},
			[]string{"phase"},
		),
		AMI: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ami_bits",
				Help:      "Average mutual information of the current clustering",
			},
			[]string{"algorithm"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.ExchangeIterations,
		m.ExchangeMoves,
		m.RandomMoves,
		m.BrownMerges,
		m.AMI,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) iteration(algorithm string, moves, randomMoves int, ami float64) {
	if m == nil {
		return
	}
	m.ExchangeIterations.Inc()
	m.ExchangeMoves.Add(float64(moves))
	m.RandomMoves.Add(float64(randomMoves))
	m.AMI.WithLabelValues(algorithm).Set(ami)
}

func (m *Metrics) merge(phase string, ami float64) {
	if m == nil {
		return
	}
	m.BrownMerges.WithLabelValues(phase).Inc()
	m.AMI.WithLabelValues("brown").Set(ami)
}
