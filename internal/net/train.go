package net

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/dataset"
)

// Train presents every (inputs[j], targets[j]) pair, in order, to a forward
// and a backward pass, numEpochs times. Every sample triggers one update.
// A malformed sample aborts training; updates already applied are kept.
func (n *Network) Train(inputs, targets [][]float64, numEpochs int) error {
	if len(inputs) != len(targets) {
		return fmt.Errorf("%w: values and targets are not the same length (%d != %d)",
			ErrInvalidArgument, len(inputs), len(targets))
	}

	for epoch := 0; epoch < numEpochs; epoch++ {
		for j := range inputs {
			if err := n.Step(inputs[j], targets[j]); err != nil {
				return fmt.Errorf("epoch %d, sample %d: %w", epoch, j, err)
			}
		}
	}
	return nil
}

// MeanError recomputes the output for every sample and returns the mean of
// the per-sample summed absolute error. An empty dataset scores 0.
func (n *Network) MeanError(ds *dataset.Dataset) (float64, error) {
	if ds.Len() == 0 {
		return 0, nil
	}

	errs := make([]float64, ds.Len())
	for i, s := range ds.Samples {
		if _, err := n.Compute(s.Values); err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		e, err := n.Error(s.Targets)
		if err != nil {
			return 0, fmt.Errorf("sample %d: %w", i, err)
		}
		errs[i] = e
	}
	return stat.Mean(errs, nil), nil
}

// FitOptions controls Fit.
type FitOptions struct {
	// Iterations is the number of training blocks; cost is reported after each.
	Iterations int
	// EpochsPerIteration is how many epochs Train runs per block.
	EpochsPerIteration int
	Callbacks          []Callback
}

// Stopper is implemented by callbacks that can end Fit early.
type Stopper interface {
	ShouldStop() bool
}

// Failer is implemented by callbacks whose work can fail, such as writing
// a progress file. Fit returns the first error a callback reports.
type Failer interface {
	Err() error
}

func callbackErr(callbacks []Callback) error {
	for _, cb := range callbacks {
		if f, ok := cb.(Failer); ok {
			if err := f.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Fit trains on ds in blocks of EpochsPerIteration epochs. After each block
// the mean error over ds is passed to every callback's OnEpochEnd, with the
// 1-based block number as the epoch. Training stops at the first callback
// error, which Fit returns once every OnTrainEnd has run.
func (n *Network) Fit(ds *dataset.Dataset, o FitOptions) (err error) {
	if o.Iterations <= 0 || o.EpochsPerIteration <= 0 {
		return fmt.Errorf("%w: iterations and epochs per iteration must be > 0 (got %d, %d)",
			ErrInvalidArgument, o.Iterations, o.EpochsPerIteration)
	}

	inputs := ds.Inputs()
	targets := ds.Targets()

	for _, cb := range o.Callbacks {
		cb.OnTrainBegin(n)
	}
	defer func() {
		for _, cb := range o.Callbacks {
			cb.OnTrainEnd(n)
		}
		if err == nil {
			err = callbackErr(o.Callbacks)
		}
	}()

	for it := 1; it <= o.Iterations; it++ {
		for _, cb := range o.Callbacks {
			cb.OnEpochBegin(it, n)
		}

		if err := n.Train(inputs, targets, o.EpochsPerIteration); err != nil {
			return fmt.Errorf("iteration %d: %w", it, err)
		}

		cost, err := n.MeanError(ds)
		if err != nil {
			return fmt.Errorf("iteration %d: %w", it, err)
		}

		stop := false
		for _, cb := range o.Callbacks {
			cb.OnEpochEnd(it, cost, n)
			if s, ok := cb.(Stopper); ok && s.ShouldStop() {
				stop = true
			}
		}
		if err := callbackErr(o.Callbacks); err != nil {
			return fmt.Errorf("iteration %d: %w", it, err)
		}
		if stop {
			break
		}
	}
	return nil
}
