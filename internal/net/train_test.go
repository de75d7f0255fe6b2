package net

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/dataset"
)

// TestTrainLengthMismatch tests that unequal input and target counts are rejected.
func TestTrainLengthMismatch(t *testing.T) {
	n := newTestNetwork(t, Config{2, 2, 2, 0.4, 0.9}, 1)
	before := n.Params()

	err := n.Train([][]float64{{0, 0}, {1, 1}}, [][]float64{{1, 0}}, 10)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "not the same length")
	assert.Equal(t, before, n.Params())
}

// TestTrainMalformedSample tests that a bad sample aborts training without rollback.
func TestTrainMalformedSample(t *testing.T) {
	n := newTestNetwork(t, Config{2, 2, 2, 0.4, 0.9}, 1)
	before := n.Params()

	err := n.Train(
		[][]float64{{0, 0}, {1}},
		[][]float64{{1, 0}, {0, 1}},
		1,
	)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
	assert.NotEqual(t, before, n.Params(), "the first sample's update is kept")
}

func TestTrainZeroEpochs(t *testing.T) {
	n := newTestNetwork(t, Config{2, 2, 2, 0.4, 0.9}, 1)
	before := n.Params()

	require.NoError(t, n.Train([][]float64{{0, 0}}, [][]float64{{1, 0}}, 0))
	assert.Equal(t, before, n.Params())
}

// TestTrainTwoPoints tests convergence on a trivially separable dataset.
func TestTrainTwoPoints(t *testing.T) {
	inputs := [][]float64{{0, 0}, {1, 1}}
	targets := [][]float64{{1, 0}, {0, 1}}

	for seed := int64(1); seed <= 5; seed++ {
		n := newTestNetwork(t, Config{2, 3, 2, 0.5, 0.5}, seed)

		require.NoError(t, n.Train(inputs, targets, 3000))

		for i := range inputs {
			_, err := n.Forward(inputs[i])
			require.NoError(t, err)
			e, err := n.Error(targets[i])
			require.NoError(t, err)
			assert.Less(t, e, 0.1, "seed %d sample %d", seed, i)
		}
	}
}

// TestTrainDoesNotModifySamples tests that inputs and targets stay read-only.
func TestTrainDoesNotModifySamples(t *testing.T) {
	inputs := [][]float64{{0.5, -0.5}, {1, 2}}
	targets := [][]float64{{1, 0}, {0, 1}}
	n := newTestNetwork(t, Config{2, 2, 2, 0.4, 0.9}, 1)

	require.NoError(t, n.Train(inputs, targets, 5))

	assert.Equal(t, [][]float64{{0.5, -0.5}, {1, 2}}, inputs)
	assert.Equal(t, [][]float64{{1, 0}, {0, 1}}, targets)
}

func twoPointDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[][]float64{{0, 0}, {1, 1}},
		[][]float64{{1, 0}, {0, 1}},
	)
	require.NoError(t, err)
	return ds
}

// TestMeanError tests the per-iteration cost.
func TestMeanError(t *testing.T) {
	n := newTestNetwork(t, Config{2, 2, 2, 0.4, 0.9}, 1)
	ds := twoPointDataset(t)

	var sum float64
	for _, s := range ds.Samples {
		_, err := n.Forward(s.Values)
		require.NoError(t, err)
		e, err := n.Error(s.Targets)
		require.NoError(t, err)
		sum += e
	}

	got, err := n.MeanError(ds)
	require.NoError(t, err)
	assert.InDelta(t, sum/2, got, 1e-12)

	got, err = n.MeanError(&dataset.Dataset{})
	require.NoError(t, err)
	assert.Zero(t, got)
}

type recorder struct {
	BaseCallback
	began, ended int
	iterations   []int
	costs        []float64
}

func (r *recorder) OnTrainBegin(n *Network) { r.began++ }
func (r *recorder) OnTrainEnd(n *Network)   { r.ended++ }
func (r *recorder) OnEpochEnd(epoch int, cost float64, n *Network) {
	r.iterations = append(r.iterations, epoch)
	r.costs = append(r.costs, cost)
}

// TestFit tests block training and callback sequencing.
func TestFit(t *testing.T) {
	n := newTestNetwork(t, Config{2, 3, 2, 0.5, 0.5}, 2)
	rec := &recorder{}

	err := n.Fit(twoPointDataset(t), FitOptions{
		Iterations:         5,
		EpochsPerIteration: 200,
		Callbacks:          []Callback{rec, Logger{Interval: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.began)
	assert.Equal(t, 1, rec.ended)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rec.iterations)
	assert.Less(t, rec.costs[4], rec.costs[0])
}

func TestFitInvalidOptions(t *testing.T) {
	n := newTestNetwork(t, Config{2, 3, 2, 0.5, 0.5}, 2)

	assert.ErrorIs(t, n.Fit(twoPointDataset(t), FitOptions{Iterations: 0, EpochsPerIteration: 1}), ErrInvalidArgument)
	assert.ErrorIs(t, n.Fit(twoPointDataset(t), FitOptions{Iterations: 1, EpochsPerIteration: 0}), ErrInvalidArgument)
}

// TestFitEarlyStopping tests that a Stopper ends Fit before all iterations run.
func TestFitEarlyStopping(t *testing.T) {
	n := newTestNetwork(t, Config{2, 3, 2, 0.5, 0.5}, 2)
	rec := &recorder{}
	// An impossible threshold makes every iteration count as "no improvement".
	stopper := NewEarlyStopping(2, 1e9)

	err := n.Fit(twoPointDataset(t), FitOptions{
		Iterations:         10,
		EpochsPerIteration: 1,
		Callbacks:          []Callback{rec, stopper},
	})
	require.NoError(t, err)

	assert.True(t, stopper.Stopped)
	// improves once, then two iterations without improvement
	assert.Equal(t, []int{1, 2, 3}, rec.iterations)
	assert.Equal(t, 1, rec.ended)
}

type failAfter struct {
	recorder
	limit int
	err   error
}

func (f *failAfter) OnEpochEnd(epoch int, cost float64, n *Network) {
	f.recorder.OnEpochEnd(epoch, cost, n)
	if epoch >= f.limit {
		f.err = errors.New("disk full")
	}
}

func (f *failAfter) Err() error { return f.err }

// TestFitCallbackError tests that a failing callback stops Fit and its error
// is returned after OnTrainEnd has run.
func TestFitCallbackError(t *testing.T) {
	n := newTestNetwork(t, Config{2, 3, 2, 0.5, 0.5}, 2)
	cb := &failAfter{limit: 2}

	err := n.Fit(twoPointDataset(t), FitOptions{
		Iterations:         10,
		EpochsPerIteration: 1,
		Callbacks:          []Callback{cb},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, []int{1, 2}, cb.iterations)
	assert.Equal(t, 1, cb.ended)
}

// TestFitIris tests end-to-end training on the bundled iris data.
func TestFitIris(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping iris training in short mode")
	}
	ds, err := dataset.LoadCSV(filepath.Join("..", "..", "data", "iris.csv"), 4, 3, true)
	require.NoError(t, err)
	ds.Normalize()
	ds.Shuffle(rand.New(rand.NewSource(1)))

	n := newTestNetwork(t, Config{4, 5, 3, 0.1, 0.5}, 1)
	require.NoError(t, n.Fit(ds, FitOptions{Iterations: 2, EpochsPerIteration: 100}))

	ev, err := Evaluate(n, ds)
	require.NoError(t, err)
	assert.Greater(t, ev.Accuracy(), 85.0)
}
