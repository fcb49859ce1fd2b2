package wordclass

import (
	"errors"
	"slices"
	"testing"
)

func TestStochasticExchange_ZeroRandomnessMatchesExchange(t *testing.T) {
	c := randomCorpus(13, 50, 3000)

	ex, err := NewExchange(c, testConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	want, err := ex.Cluster(6, 4, DefaultMinAMIChange)
	if err != nil {
		t.Fatal(err)
	}

	st, err := NewStochasticExchange(c, testConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	got, err := st.Cluster(6, 4, DefaultMinAMIChange)
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(got, want) {
		t.Errorf("assignment = %v, want %v", got, want)
	}
	if !almostEqual(st.CalculateAMI(), ex.CalculateAMI(), 1e-12) {
		t.Errorf("AMI = %v, want %v", st.CalculateAMI(), ex.CalculateAMI())
	}
}

func TestStochasticExchange_SameStartSameAMI(t *testing.T) {
	c := abcdCorpus()
	start := []int{0, 1, 1, 2}

	ex, _ := NewExchange(c, testConfig(1))
	st, _ := NewStochasticExchange(c, testConfig(1))
	if err := ex.Initialize(3, start); err != nil {
		t.Fatal(err)
	}
	if err := st.Initialize(3, start); err != nil {
		t.Fatal(err)
	}
	if ex.CalculateAMI() != st.CalculateAMI() {
		t.Errorf("AMI at iteration 0 differs: %v vs %v", ex.CalculateAMI(), st.CalculateAMI())
	}
}

// The AMI threshold never gates a stochastic run: a pass without moves ends
// it even when that pass gained more than the threshold, and a pass with
// moves never ends it.
func TestStochasticExchange_IgnoresAMIThreshold(t *testing.T) {
	st, err := NewStochasticExchange(abcdCorpus(), testConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.ClusterFrom(3, 5, []int{0, 1, 1, 2}, -1); err != nil {
		t.Fatal(err)
	}
	if got := st.Iterations(); got != 2 {
		t.Errorf("Iterations = %d, want 2", got)
	}
	if !st.amiIncreasing {
		t.Error("stochastic runs always report an increasing AMI")
	}

	if err := st.Initialize(3, []int{0, 1, 1, 2}); err != nil {
		t.Fatal(err)
	}
	converged, err := st.ClusterOneIteration(1e9)
	if err != nil {
		t.Fatal(err)
	}
	if converged {
		t.Error("a pass with moves must not converge, whatever the threshold")
	}
}

func TestStochasticExchange_RandomMovesKeepStateConsistent(t *testing.T) {
	c := randomCorpus(17, 40, 2500)
	cfg := testConfig(1)
	cfg.Randomness = 100
	st, err := NewStochasticExchange(c, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Initialize(7, nil); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if _, err := st.ClusterOneIteration(DefaultMinAMIChange); err != nil {
			t.Fatal(err)
		}
		checkExchangeState(t, st.Exchange)
		if st.ChangesInPreviousIteration() == 0 {
			t.Fatal("full randomness should move words every pass")
		}
	}
	for k := 0; k < 7; k++ {
		if st.members[k].IsEmpty() {
			t.Errorf("cluster %d emptied", k)
		}
	}
}

func TestStochasticExchange_SeedIsReproducible(t *testing.T) {
	c := randomCorpus(19, 40, 2500)
	run := func() []int {
		cfg := testConfig(1)
		cfg.Randomness = 30
		st, err := NewStochasticExchange(c, cfg)
		if err != nil {
			t.Fatal(err)
		}
		got, err := st.Cluster(5, 6, DefaultMinAMIChange)
		if err != nil {
			t.Fatal(err)
		}
		return got
	}
	if a, b := run(), run(); !slices.Equal(a, b) {
		t.Errorf("same seed gave %v and %v", a, b)
	}
}

func TestStochasticExchange_SetRandomness(t *testing.T) {
	st, err := NewStochasticExchange(abcdCorpus(), testConfig(1))
	if err != nil {
		t.Fatal(err)
	}
	if st.Randomness() != 0 {
		t.Errorf("Randomness = %v, want 0", st.Randomness())
	}
	if err := st.SetRandomness(25); err != nil {
		t.Fatal(err)
	}
	if st.Randomness() != 25 {
		t.Errorf("Randomness = %v, want 25", st.Randomness())
	}
	for _, bad := range []float64{-1, 100.5} {
		if err := st.SetRandomness(bad); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("SetRandomness(%v) = %v", bad, err)
		}
	}
	if st.Name() != "StochasticExchange" {
		t.Errorf("Name = %q", st.Name())
	}

	cfg := testConfig(1)
	cfg.Randomness = 101
	if _, err := NewStochasticExchange(abcdCorpus(), cfg); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Randomness 101: got %v", err)
	}
}
