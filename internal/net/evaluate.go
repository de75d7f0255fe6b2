package net

import (
	"fmt"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/dataset"
)

// Prediction is the outcome of classifying one sample.
type Prediction struct {
	Values        []float64
	Expected      []float64
	Computed      []float64
	ExpectedClass int
	ComputedClass int
	Correct       bool
}

// Evaluation aggregates predictions over a dataset.
type Evaluation struct {
	Predictions []Prediction
	Good        int
	Bad         int
}

// Accuracy returns the percentage of correct predictions, or 0 when empty.
func (e Evaluation) Accuracy() float64 {
	total := e.Good + e.Bad
	if total == 0 {
		return 0
	}
	return 100 * float64(e.Good) / float64(total)
}

// ArgMax returns the index of the largest value, the last one on ties,
// or -1 for an empty slice. Saturated outputs tie at exactly 0 or 1, so
// the tie rule decides GOOD/BAD counts.
func ArgMax(s []float64) int {
	if len(s) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(s); i++ {
		if s[i] >= s[best] {
			best = i
		}
	}
	return best
}

// Classify reports whether computed and expected agree on the winning class.
func Classify(computed, expected []float64) (computedClass, expectedClass int, correct bool) {
	computedClass = ArgMax(computed)
	expectedClass = ArgMax(expected)
	return computedClass, expectedClass, computedClass == expectedClass
}

// Evaluate runs every sample of ds through n and scores it by argmax matching.
func Evaluate(n *Network, ds *dataset.Dataset) (Evaluation, error) {
	ev := Evaluation{Predictions: make([]Prediction, 0, ds.Len())}

	for i, s := range ds.Samples {
		computed, err := n.Compute(s.Values)
		if err != nil {
			return Evaluation{}, fmt.Errorf("sample %d: %w", i, err)
		}

		cc, ec, ok := Classify(computed, s.Targets)
		ev.Predictions = append(ev.Predictions, Prediction{
			Values:        s.Values,
			Expected:      s.Targets,
			Computed:      computed,
			ExpectedClass: ec,
			ComputedClass: cc,
			Correct:       ok,
		})
		if ok {
			ev.Good++
		} else {
			ev.Bad++
		}
	}
	return ev, nil
}
