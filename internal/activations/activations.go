// Package activations provides the logistic activation used by every layer.
package activations

import "math"

// sigmoidClamp is the |x| beyond which the logistic curve is pinned to 0 or 1.
// exp(45) is far from overflow and 1/(1+e^-45) already rounds to 1.
const sigmoidClamp = 45.0

// Activation is an activation function with derivative.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x) from the activation output y = f(x)
	Derivative(y float64) float64
}

// Sigmoid activation function.
type Sigmoid struct{}

// sigmoid computes the clamped logistic function.
func sigmoid(x float64) float64 {
	switch {
	case x < -sigmoidClamp:
		return 0
	case x > sigmoidClamp:
		return 1
	}
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes y * (1 - y) where y is an already activated value.
func (s Sigmoid) Derivative(y float64) float64 {
	return y * (1 - y)
}
