// Package net provides the single-hidden-layer perceptron network.
package net

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/layer"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/loss"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
)

var (
	// ErrInvalidArgument reports a bad construction parameter or mismatched training data.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDimensionMismatch reports a vector whose length does not match the layer it feeds.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrNoForwardPass reports a Backward call with no forward pass since the last update.
	ErrNoForwardPass = errors.New("backward called without a preceding forward pass")
	// ErrStaleForward reports a Backward call whose input differs from the last forward input.
	ErrStaleForward = errors.New("backward input differs from last forward input")
)

// Config holds the fixed shape and hyperparameters of a Network.
type Config struct {
	InputSize  int
	HiddenSize int
	OutputSize int
	LearnRate  float64
	Momentum   float64
}

// Validate checks that every size is positive and every hyperparameter finite.
func (c Config) Validate() error {
	if c.InputSize <= 0 || c.HiddenSize <= 0 || c.OutputSize <= 0 {
		return fmt.Errorf("%w: layer sizes must be > 0 (got %d-%d-%d)",
			ErrInvalidArgument, c.InputSize, c.HiddenSize, c.OutputSize)
	}
	if !isFinite(c.LearnRate) {
		return fmt.Errorf("%w: learn rate must be finite (got %v)", ErrInvalidArgument, c.LearnRate)
	}
	if !isFinite(c.Momentum) {
		return fmt.Errorf("%w: momentum must be finite (got %v)", ErrInvalidArgument, c.Momentum)
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Network is a feedforward network with one sigmoid hidden layer and a
// sigmoid output layer, trained one sample at a time with momentum.
//
// A Network is not safe for concurrent use.
type Network struct {
	cfg    Config
	hidden *layer.Dense
	output *layer.Dense
	loss   loss.Loss
	opt    opt.Optimizer

	// Pre-allocated residual buffer for the output layer
	residualBuf []float64

	// forwarded is set by Forward and cleared by Backward.
	forwarded bool
}

// New creates a network drawing every initial weight and bias from rng.
// Hidden biases, hidden weights, output biases and output weights are
// drawn in that order, so the same seed always yields the same network.
func New(cfg Config, rng *rand.Rand) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidArgument)
	}

	act := activations.Sigmoid{}
	hidden := layer.NewDense(cfg.InputSize, cfg.HiddenSize, act, rng)
	output := layer.NewDense(cfg.HiddenSize, cfg.OutputSize, act, rng)

	return &Network{
		cfg:         cfg,
		hidden:      hidden,
		output:      output,
		loss:        loss.SumAbs{},
		opt:         opt.NewMomentum(cfg.LearnRate, cfg.Momentum),
		residualBuf: make([]float64, cfg.OutputSize),
	}, nil
}

// Config returns the configuration the network was built with.
func (n *Network) Config() Config {
	return n.cfg
}

// Hidden returns the hidden layer.
func (n *Network) Hidden() *layer.Dense {
	return n.hidden
}

// Output returns the output layer.
func (n *Network) Output() *layer.Dense {
	return n.output
}

// Forward computes the hidden and output activations for input and returns
// a copy of the output vector.
func (n *Network) Forward(input []float64) ([]float64, error) {
	if len(input) != n.cfg.InputSize {
		return nil, fmt.Errorf("%w: input has %d values, want %d",
			ErrDimensionMismatch, len(input), n.cfg.InputSize)
	}

	h := n.hidden.Forward(input)
	y := n.output.Forward(h)
	n.forwarded = true

	out := make([]float64, len(y))
	copy(out, y)
	return out, nil
}

// Compute is Forward under the name reporting code uses.
func (n *Network) Compute(input []float64) ([]float64, error) {
	return n.Forward(input)
}

// Backward propagates the error between target and the last forward output
// back through the network and applies one momentum update to every weight
// and bias. input must be the vector given to the immediately preceding
// Forward call.
//
// All arguments are checked before any parameter changes.
func (n *Network) Backward(input, target []float64) error {
	if len(target) != n.cfg.OutputSize {
		return fmt.Errorf("%w: target has %d values, want %d",
			ErrDimensionMismatch, len(target), n.cfg.OutputSize)
	}
	if !n.forwarded {
		return ErrNoForwardPass
	}
	if len(input) != n.cfg.InputSize || !floats.Equal(input, n.hidden.Input()) {
		return ErrStaleForward
	}

	// Both gradients are taken before any weight moves.
	residual := loss.Residual(n.residualBuf, n.output.Output(), target)
	hiddenErr := n.output.Backward(residual)
	n.hidden.Backward(hiddenErr)

	n.hidden.Update(n.opt)
	n.output.Update(n.opt)

	n.forwarded = false
	return nil
}

// Step runs Forward then Backward on one sample.
func (n *Network) Step(input, target []float64) error {
	if _, err := n.Forward(input); err != nil {
		return err
	}
	return n.Backward(input, target)
}

// Error returns sum_i |target[i] - output[i]| for the most recent forward output.
func (n *Network) Error(target []float64) (float64, error) {
	if len(target) != n.cfg.OutputSize {
		return 0, fmt.Errorf("%w: target has %d values, want %d",
			ErrDimensionMismatch, len(target), n.cfg.OutputSize)
	}
	return n.loss.Forward(n.output.Output(), target), nil
}

// Params returns all network parameters flattened (copy), hidden layer first.
func (n *Network) Params() []float64 {
	params := n.hidden.Params()
	return append(params, n.output.Params()...)
}
