// Package loss provides the error metric reported during training.
package loss

import "gonum.org/v1/gonum/floats"

// Loss scores a prediction against its target.
type Loss interface {
	// Forward computes the loss value
	Forward(yPred, yTrue []float64) float64
}

// SumAbs is the absolute error summed (not averaged) over output units:
// sum_i |yTrue[i] - yPred[i]|.
type SumAbs struct{}

// Forward computes the L1 distance between prediction and target.
// It panics if the lengths differ.
func (SumAbs) Forward(yPred, yTrue []float64) float64 {
	return floats.Distance(yTrue, yPred, 1)
}

// Residual writes yTrue - yPred into dst and returns it.
// This is the error signal the output layer trains on.
func Residual(dst, yPred, yTrue []float64) []float64 {
	return floats.SubTo(dst, yTrue, yPred)
}
