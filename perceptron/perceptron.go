// Package perceptron is the public entry point: a one-hidden-layer sigmoid
// network trained sample by sample with momentum.
package perceptron

import (
	"math/rand"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/dataset"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
)

// Re-export common types and functions for easier access
type (
	Network    = net.Network
	Config     = net.Config
	FitOptions = net.FitOptions
	Callback   = net.Callback
	Evaluation = net.Evaluation
	Prediction = net.Prediction
	Dataset    = dataset.Dataset
	Sample     = dataset.Sample
)

// Errors
var (
	ErrInvalidArgument   = net.ErrInvalidArgument
	ErrDimensionMismatch = net.ErrDimensionMismatch
	ErrNoForwardPass     = net.ErrNoForwardPass
	ErrStaleForward      = net.ErrStaleForward
)

// New creates a network with weights drawn from a generator seeded with seed.
func New(cfg Config, seed int64) (*Network, error) {
	return net.New(cfg, rand.New(rand.NewSource(seed)))
}

// NewWithRand creates a network drawing its weights from rng.
func NewWithRand(cfg Config, rng *rand.Rand) (*Network, error) {
	return net.New(cfg, rng)
}

// Datasets
func LoadCSV(filename string, numValues, numTargets int, hasHeader bool) (*Dataset, error) {
	return dataset.LoadCSV(filename, numValues, numTargets, hasHeader)
}

func NewDataset(values, targets [][]float64) (*Dataset, error) {
	return dataset.New(values, targets)
}

// Evaluation
func Evaluate(n *Network, ds *Dataset) (Evaluation, error) {
	return net.Evaluate(n, ds)
}

func ArgMax(s []float64) int {
	return net.ArgMax(s)
}

// Callbacks
func Logger(interval int) net.Logger {
	return net.Logger{Interval: interval}
}

// CSVLogger opens filename for per-iteration progress rows. Fit reports
// any write failure.
func CSVLogger(filename string) (*net.CSVLogger, error) {
	return net.NewCSVLogger(filename, false)
}

func EarlyStopping(patience int, minDelta float64) *net.EarlyStopping {
	return net.NewEarlyStopping(patience, minDelta)
}
