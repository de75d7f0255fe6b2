// Package layer provides the fully connected layer used by the network.
package layer

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/activations"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/opt"
)

// Dense is a fully connected layer with per-parameter momentum memory.
//
// Weights live in an out×in gonum matrix. Its row-major backing slice
// holds the weight from input j into unit i at j + i*in.
type Dense struct {
	weights *mat.Dense
	biases  []float64
	act     activations.Activation
	outSize int
	inSize  int

	// Previous update per parameter, same layout as weights/biases
	weightDeltas []float64
	biasDeltas   []float64

	// Reusable buffers; vectors alias the slices next to them
	inputBuf  []float64
	inputVec  *mat.VecDense
	outputBuf []float64
	outputVec *mat.VecDense
	gradBuf   []float64
	gradVec   *mat.VecDense
	gradW     *mat.Dense
	errInBuf  []float64
	errInVec  *mat.VecDense
}

// NewDense creates a dense layer whose weights and biases are drawn
// uniformly from [-1, 1) using rng. Biases are drawn before weights.
func NewDense(in, out int, act activations.Activation, rng *rand.Rand) *Dense {
	biases := make([]float64, out)
	for i := range biases {
		biases[i] = uniform(rng)
	}
	weights := make([]float64, out*in)
	for i := range weights {
		weights[i] = uniform(rng)
	}

	d := &Dense{
		weights:      mat.NewDense(out, in, weights),
		biases:       biases,
		act:          act,
		outSize:      out,
		inSize:       in,
		weightDeltas: make([]float64, out*in),
		biasDeltas:   make([]float64, out),
		inputBuf:     make([]float64, in),
		outputBuf:    make([]float64, out),
		gradBuf:      make([]float64, out),
		gradW:        mat.NewDense(out, in, nil),
		errInBuf:     make([]float64, in),
	}
	d.inputVec = mat.NewVecDense(in, d.inputBuf)
	d.outputVec = mat.NewVecDense(out, d.outputBuf)
	d.gradVec = mat.NewVecDense(out, d.gradBuf)
	d.errInVec = mat.NewVecDense(in, d.errInBuf)
	return d
}

func uniform(rng *rand.Rand) float64 {
	return 2*rng.Float64() - 1
}

// Forward computes act(b + Wx) and stores x and the activations.
// The returned slice is the layer's own buffer and is overwritten by the next call.
func (d *Dense) Forward(x []float64) []float64 {
	if len(x) != d.inSize {
		panic(fmt.Sprintf("layer: input has %d values, want %d", len(x), d.inSize))
	}
	copy(d.inputBuf, x)

	d.outputVec.MulVec(d.weights, d.inputVec)
	for i := range d.outputBuf {
		d.outputBuf[i] = d.act.Activate(d.biases[i] + d.outputBuf[i])
	}
	return d.outputBuf
}

// Backward turns errSignal (the error seen at this layer's outputs) into the
// per-unit gradient and returns the error propagated to this layer's inputs,
// sum_j grad[j] * W[j, i]. Parameters are not modified.
func (d *Dense) Backward(errSignal []float64) []float64 {
	if len(errSignal) != d.outSize {
		panic(fmt.Sprintf("layer: error signal has %d values, want %d", len(errSignal), d.outSize))
	}
	for i, y := range d.outputBuf {
		d.gradBuf[i] = errSignal[i] * d.act.Derivative(y)
	}

	// Transposed read: column i of W holds every weight leaving input i.
	d.errInVec.MulVec(d.weights.T(), d.gradVec)
	return d.errInBuf
}

// Update applies o to the weights and biases using the gradient from the
// last Backward call and the input from the last Forward call.
func (d *Dense) Update(o opt.Optimizer) {
	d.gradW.Outer(1, d.gradVec, d.inputVec)

	o.StepInPlace(d.biases, d.biasDeltas, d.gradBuf)
	o.StepInPlace(d.weights.RawMatrix().Data, d.weightDeltas, d.gradW.RawMatrix().Data)
}

// Params returns all dense layer parameters flattened (weights then biases).
func (d *Dense) Params() []float64 {
	w := d.weights.RawMatrix().Data
	params := make([]float64, 0, len(w)+len(d.biases))
	params = append(params, w...)
	params = append(params, d.biases...)
	return params
}

// SetParams updates weights and biases from a flattened slice (in-place).
func (d *Dense) SetParams(params []float64) {
	w := d.weights.RawMatrix().Data
	copy(w, params[:len(w)])
	copy(d.biases, params[len(w):])
}

// Deltas returns copies of the momentum memory (weights then biases).
func (d *Dense) Deltas() (weights, biases []float64) {
	weights = append([]float64(nil), d.weightDeltas...)
	biases = append([]float64(nil), d.biasDeltas...)
	return weights, biases
}

// SetWeight sets the weight from input col into unit row.
func (d *Dense) SetWeight(row, col int, val float64) {
	d.weights.Set(row, col, val)
}

// GetWeight gets the weight from input col into unit row.
func (d *Dense) GetWeight(row, col int) float64 {
	return d.weights.At(row, col)
}

// SetBias sets a single bias.
func (d *Dense) SetBias(idx int, val float64) {
	d.biases[idx] = val
}

// GetBias gets a single bias.
func (d *Dense) GetBias(idx int) float64 {
	return d.biases[idx]
}

// Output returns the activations of the last Forward call.
func (d *Dense) Output() []float64 {
	return d.outputBuf
}

// Gradient returns the per-unit gradient of the last Backward call.
func (d *Dense) Gradient() []float64 {
	return d.gradBuf
}

// Input returns the input captured by the last Forward call.
func (d *Dense) Input() []float64 {
	return d.inputBuf
}
