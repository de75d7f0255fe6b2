package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/config"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
)

func TestRun(t *testing.T) {
	cfg := config.Default()
	cfg.Data = filepath.Join("..", "..", "data", "iris.csv")
	cfg.Iterations = 2
	cfg.EpochsPerIteration = 5
	cfg.Seed = 1
	cfg.CSVLog = filepath.Join(t.TempDir(), "progress.csv")
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(cfg, &out, log))

	text := out.String()
	assert.Contains(t, text, "Training completed.")
	assert.Contains(t, text, "Testing network with validation dataset:")
	assert.Contains(t, text, "Testing network with cross validation dataset:")
	assert.Equal(t, 3, strings.Count(text, "% Good : "))
	assert.Contains(t, text, "Duration: ")

	// 150 samples: 22 validation + 22 cross validation + 106 train
	lines := strings.Count(text, "RESULT\n")
	assert.Equal(t, 150, lines)

	progress, err := os.ReadFile(cfg.CSVLog)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(progress), "\n"))
}

func TestRunMissingData(t *testing.T) {
	cfg := config.Default()
	cfg.Data = filepath.Join(t.TempDir(), "missing.csv")
	cfg.Seed = 1

	err := run(cfg, io.Discard, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestRunUnwritableCSVLog(t *testing.T) {
	cfg := config.Default()
	cfg.Data = filepath.Join("..", "..", "data", "iris.csv")
	cfg.Iterations = 1
	cfg.EpochsPerIteration = 1
	cfg.Seed = 1
	cfg.CSVLog = filepath.Join(t.TempDir(), "missing", "progress.csv")

	var out bytes.Buffer
	err := run(cfg, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "csv log")
	assert.NotContains(t, out.String(), "Training completed.")
}

// TestRunEarlyStopping tests that a patience setting ends training before
// every iteration has run.
func TestRunEarlyStopping(t *testing.T) {
	cfg := config.Default()
	cfg.Data = filepath.Join("..", "..", "data", "iris.csv")
	cfg.Iterations = 50
	cfg.EpochsPerIteration = 1
	cfg.Seed = 1
	cfg.EarlyStoppingPatience = 1
	// No block can improve the cost by this much.
	cfg.EarlyStoppingThreshold = 1e9
	cfg.CSVLog = filepath.Join(t.TempDir(), "progress.csv")
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	require.NoError(t, run(cfg, &out, slog.New(slog.NewTextHandler(io.Discard, nil))))
	assert.Contains(t, out.String(), "Training stopped early")

	// header + two rows: the first block sets the best cost, the second misses it
	progress, err := os.ReadFile(cfg.CSVLog)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(progress), "\n"))
}

func TestReport(t *testing.T) {
	var out bytes.Buffer
	report(&out, net.Evaluation{
		Predictions: []net.Prediction{
			{Values: []float64{5.1, 3.5}, Expected: []float64{1, 0}, Computed: []float64{0.91, 0.04}, Correct: true},
			{Values: []float64{6.3, 2.9}, Expected: []float64{0, 1}, Computed: []float64{0.6, 0.3}},
		},
		Good: 1,
		Bad:  1,
	})

	text := out.String()
	assert.Contains(t, text, "Input: 5.1 3.5 Expected: 1.0 0.0 Computed: 0.9 0.0 GOOD RESULT")
	assert.Contains(t, text, "Computed: 0.6 0.3 BAD RESULT")
	assert.Contains(t, text, "# Good : 1\n")
	assert.Contains(t, text, "# Bad  : 1\n")
	assert.Contains(t, text, "% Good : 50.0\n")
}
