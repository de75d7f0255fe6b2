// Package opt provides the momentum update applied after each sample.
package opt

// Optimizer updates network parameters based on gradients.
type Optimizer interface {
	// StepInPlace moves params along gradients and refreshes the
	// per-parameter deltas kept between calls.
	StepInPlace(params, deltas, gradients []float64)
}

// Momentum is gradient ascent on the error signal with a momentum term.
//
// For every parameter p with previous delta d' and gradient g:
//
//	d  = LearningRate * g
//	p += d + Momentum * d'
//	d' = d
//
// The momentum term carries the unscaled previous delta; it is not
// multiplied by the learning rate a second time.
type Momentum struct {
	LearningRate float64
	Momentum     float64
}

// NewMomentum creates a momentum optimizer.
func NewMomentum(learningRate, momentum float64) Momentum {
	return Momentum{LearningRate: learningRate, Momentum: momentum}
}

// StepInPlace updates params and deltas in-place.
// gradients already carry the sign of (target - output), so they are added.
func (m Momentum) StepInPlace(params, deltas, gradients []float64) {
	lr := m.LearningRate
	mu := m.Momentum
	for i := range params {
		prev := deltas[i]
		d := lr * gradients[i]
		params[i] += d + mu*prev
		deltas[i] = d
	}
}
