package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/FlavioCFOliveira/GoPerceptron/internal/config"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/dataset"
	"github.com/FlavioCFOliveira/GoPerceptron/internal/net"
)

// Iris dataset: 3 classes (Setosa, Versicolor, Virginica)
// Each sample has 4 features (sepal length, sepal width, petal length, petal width)
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults to the built-in iris setup)")
	data := flag.String("data", "", "Override CSV data file")
	seed := flag.Int64("seed", 0, "PRNG seed (0 picks one from the clock)")
	iterations := flag.Int("iterations", 0, "Number of training blocks")
	epochs := flag.Int("epochs", 0, "Epochs per training block")
	hidden := flag.Int("hidden", 0, "Hidden layer size")
	learnRate := flag.Float64("learn-rate", 0, "Learning rate")
	momentum := flag.Float64("momentum", 0, "Momentum")
	csvLog := flag.String("csv-log", "", "Write per-iteration cost to this CSV file")
	patience := flag.Int("patience", 0, "Stop after this many iterations without improvement (0 disables)")
	flag.Parse()

	// Only flags given on the command line override the config, so an
	// explicit -momentum 0 selects plain gradient descent.
	var o config.Overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			o.Data = data
		case "seed":
			o.Seed = seed
		case "iterations":
			o.Iterations = iterations
		case "epochs":
			o.EpochsPerIteration = epochs
		case "hidden":
			o.HiddenSize = hidden
		case "learn-rate":
			o.LearnRate = learnRate
		case "momentum":
			o.Momentum = momentum
		case "csv-log":
			o.CSVLog = csvLog
		case "patience":
			o.EarlyStoppingPatience = patience
		}
	})

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Error("failed to load config", "err", err)
			os.Exit(1)
		}
	}
	cfg.ApplyOverrides(o)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, os.Stdout, log); err != nil {
		log.Error("training failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, w io.Writer, log *slog.Logger) error {
	start := time.Now()

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	log.Info("starting", "seed", cfg.Seed, "data", cfg.Data)

	full, err := dataset.LoadCSV(cfg.Data, cfg.NumValues, cfg.NumTargets, cfg.Header)
	if err != nil {
		return err
	}
	if cfg.Normalize {
		full.Normalize()
	}
	full.Shuffle(rng)

	train, validation, crossValidation, err := full.Partition(cfg.ValidationPct, cfg.CrossValidationPct)
	if err != nil {
		return err
	}
	log.Info("dataset loaded",
		"samples", full.Len(),
		"train", train.Len(),
		"validation", validation.Len(),
		"cross_validation", crossValidation.Len())

	network, err := net.New(net.Config{
		InputSize:  cfg.NumValues,
		HiddenSize: cfg.HiddenSize,
		OutputSize: cfg.NumTargets,
		LearnRate:  cfg.LearnRate,
		Momentum:   cfg.Momentum,
	}, rng)
	if err != nil {
		return err
	}

	callbacks := []net.Callback{net.Logger{Interval: cfg.LogEvery, Log: log}}
	if cfg.CSVLog != "" {
		csvLogger, err := net.NewCSVLogger(cfg.CSVLog, false)
		if err != nil {
			return err
		}
		defer csvLogger.Close()
		callbacks = append(callbacks, csvLogger)
	}
	var stopper *net.EarlyStopping
	if cfg.EarlyStoppingPatience > 0 {
		stopper = net.NewEarlyStopping(cfg.EarlyStoppingPatience, cfg.EarlyStoppingThreshold)
		stopper.Log = log
		callbacks = append(callbacks, stopper)
	}

	fmt.Fprintln(w, "Training started...")
	fmt.Fprintln(w)
	err = network.Fit(train, net.FitOptions{
		Iterations:         cfg.Iterations,
		EpochsPerIteration: cfg.EpochsPerIteration,
		Callbacks:          callbacks,
	})
	if err != nil {
		return err
	}
	if stopper != nil && stopper.Stopped {
		fmt.Fprintln(w, "Training stopped early: cost stopped improving.")
	}
	fmt.Fprintln(w, "Training completed.")
	fmt.Fprintln(w)

	sets := []struct {
		name string
		ds   *dataset.Dataset
	}{
		{"train", train},
		{"validation", validation},
		{"cross validation", crossValidation},
	}
	for _, s := range sets {
		fmt.Fprintf(w, "Testing network with %s dataset:\n\n", s.name)
		ev, err := net.Evaluate(network, s.ds)
		if err != nil {
			return fmt.Errorf("%s dataset: %w", s.name, err)
		}
		report(w, ev)
	}

	fmt.Fprintf(w, "Duration: %s\n", time.Since(start))
	return nil
}

func report(w io.Writer, ev net.Evaluation) {
	for _, p := range ev.Predictions {
		verdict := "BAD RESULT"
		if p.Correct {
			verdict = "GOOD RESULT"
		}
		fmt.Fprintf(w, "Input: %s Expected: %s Computed: %s %s\n",
			formatVector(p.Values), formatVector(p.Expected), formatVector(p.Computed), verdict)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "# Good : %d\n", ev.Good)
	fmt.Fprintf(w, "# Bad  : %d\n", ev.Bad)
	fmt.Fprintf(w, "%% Good : %.1f\n", ev.Accuracy())
	fmt.Fprintln(w)
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%.1f", x)
	}
	return strings.Join(parts, " ")
}
