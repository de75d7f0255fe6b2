package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/dataset"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
)

func main() {
	seed := flag.Int64("seed", 42, "PRNG seed for the initial weights")
	epochs := flag.Int("epochs", 5000, "Number of training epochs")
	flag.Parse()

	if err := run(*seed, *epochs); err != nil {
		fmt.Fprintf(os.Stderr, "xor: %v\n", err)
		os.Exit(1)
	}
}

func run(seed int64, epochs int) error {
	fmt.Println("=== XOR Training Example ===")

	// The XOR function cannot be solved by a single-layer perceptron
	// but can be solved with one hidden layer
	cfg := net.Config{InputSize: 2, HiddenSize: 3, OutputSize: 1, LearnRate: 0.5, Momentum: 0.9}

	fmt.Printf("Network architecture: %d-%d-%d\n", cfg.InputSize, cfg.HiddenSize, cfg.OutputSize)
	fmt.Printf("Learning rate %.2f, momentum %.2f, seed %d\n", cfg.LearnRate, cfg.Momentum, seed)

	network, err := net.New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	trainX := [][]float64{
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
	}
	trainY := [][]float64{
		{0},
		{1},
		{1},
		{0},
	}
	ds, err := dataset.New(trainX, trainY)
	if err != nil {
		return err
	}

	for epoch := 0; epoch < epochs; epoch++ {
		if err := network.Train(trainX, trainY, 1); err != nil {
			return err
		}
		if epoch%500 == 0 {
			cost, err := network.MeanError(ds)
			if err != nil {
				return err
			}
			fmt.Printf("Epoch %d, Error: %.6f\n", epoch, cost)
		}
	}

	fmt.Println("\nTesting trained network:")
	for i := range trainX {
		pred, err := network.Compute(trainX[i])
		if err != nil {
			return err
		}
		fmt.Printf("Input: %v, Predicted: %.4f, Target: %v\n", trainX[i], pred[0], trainY[i][0])
	}

	// A second network from the same seed must follow the same trajectory.
	fmt.Println("\nVerifying a replica trained from the same seed...")
	replica, err := net.New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}
	if err := replica.Train(trainX, trainY, epochs); err != nil {
		return err
	}

	if err := compare(os.Stdout, network, replica, trainX); err != nil {
		return err
	}
	fmt.Println("\nSUCCESS: training is reproducible from the seed")
	return nil
}

// compare prints both networks' outputs for every input and fails when
// their parameters or outputs differ.
func compare(w io.Writer, original, replica *net.Network, inputs [][]float64) error {
	allMatch := floats.Equal(original.Params(), replica.Params())
	for _, in := range inputs {
		a, err := original.Compute(in)
		if err != nil {
			return err
		}
		b, err := replica.Compute(in)
		if err != nil {
			return err
		}
		match := "OK"
		if !floats.Equal(a, b) {
			match = "MISMATCH"
			allMatch = false
		}
		fmt.Fprintf(w, "Input: %v, Original: %.4f, Replica: %.4f [%s]\n", in, a[0], b[0], match)
	}

	if !allMatch {
		return fmt.Errorf("replica diverged from original network")
	}
	return nil
}
