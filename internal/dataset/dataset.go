// Package dataset loads, shuffles and partitions labeled tabular samples.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// Sample is one labeled row: input values followed by target values.
type Sample struct {
	Values  []float64
	Targets []float64
}

// Dataset represents an ordered collection of samples.
type Dataset struct {
	Samples []Sample
}

// New creates a dataset from parallel input and target slices.
func New(values, targets [][]float64) (*Dataset, error) {
	if len(values) != len(targets) {
		return nil, fmt.Errorf("dataset: %d value rows but %d target rows", len(values), len(targets))
	}
	samples := make([]Sample, len(values))
	for i := range values {
		samples[i] = Sample{Values: values[i], Targets: targets[i]}
	}
	return &Dataset{Samples: samples}, nil
}

// LoadCSV loads a dataset from a CSV file.
// The first numValues columns are inputs, the next numTargets are targets;
// any further columns are ignored. hasHeader skips the first line.
func LoadCSV(filename string, numValues, numTargets int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	ds, err := ReadCSV(file, numValues, numTargets, hasHeader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return ds, nil
}

// ReadCSV reads a dataset from CSV records in r.
func ReadCSV(r io.Reader, numValues, numTargets int, hasHeader bool) (*Dataset, error) {
	if numValues <= 0 || numTargets <= 0 {
		return nil, fmt.Errorf("numValues and numTargets must be > 0 (got %d, %d)", numValues, numTargets)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, errors.New("csv file is empty")
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}

	if len(records) <= startRow {
		return nil, errors.New("csv file has no data rows")
	}

	width := numValues + numTargets
	samples := make([]Sample, 0, len(records)-startRow)

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) < width {
			return nil, fmt.Errorf("row %d has %d columns, want at least %d", i+1, len(record), width)
		}

		row := make([]float64, width)
		for j := 0; j < width; j++ {
			val, err := strconv.ParseFloat(strings.TrimSpace(record[j]), 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value at row %d, col %d: %w", i+1, j+1, err)
			}
			row[j] = val
		}

		samples = append(samples, Sample{
			Values:  row[:numValues:numValues],
			Targets: row[numValues:],
		})
	}

	return &Dataset{Samples: samples}, nil
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Samples)
}

// Inputs returns the input vectors in sample order.
func (d *Dataset) Inputs() [][]float64 {
	inputs := make([][]float64, len(d.Samples))
	for i, s := range d.Samples {
		inputs[i] = s.Values
	}
	return inputs
}

// Targets returns the target vectors in sample order.
func (d *Dataset) Targets() [][]float64 {
	targets := make([][]float64, len(d.Samples))
	for i, s := range d.Samples {
		targets[i] = s.Targets
	}
	return targets
}

// Shuffle permutes the samples in place with a Fisher-Yates shuffle driven by rng.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	for n := len(d.Samples) - 1; n > 0; n-- {
		k := rng.Intn(n + 1)
		d.Samples[k], d.Samples[n] = d.Samples[n], d.Samples[k]
	}
}

// Partition splits the dataset into three disjoint parts, in order:
// validation takes the first len*validationPct/100 samples,
// cross-validation the next len*crossValidationPct/100, and
// training everything that remains.
func (d *Dataset) Partition(validationPct, crossValidationPct int) (train, validation, crossValidation *Dataset, err error) {
	if validationPct < 0 || crossValidationPct < 0 || validationPct+crossValidationPct > 100 {
		return nil, nil, nil, fmt.Errorf("invalid partition %d%%/%d%%", validationPct, crossValidationPct)
	}

	n := len(d.Samples)
	v := n * validationPct / 100
	c := n * crossValidationPct / 100

	validation = &Dataset{Samples: d.Samples[:v:v]}
	crossValidation = &Dataset{Samples: d.Samples[v : v+c : v+c]}
	train = &Dataset{Samples: d.Samples[v+c:]}
	return train, validation, crossValidation, nil
}

// Normalize performs min-max normalization on the input values in place.
// Columns with a constant value become 0.
func (d *Dataset) Normalize() {
	if len(d.Samples) == 0 {
		return
	}

	numFeatures := len(d.Samples[0].Values)
	lo := make([]float64, numFeatures)
	hi := make([]float64, numFeatures)
	copy(lo, d.Samples[0].Values)
	copy(hi, d.Samples[0].Values)

	for _, s := range d.Samples {
		for i, val := range s.Values {
			if val < lo[i] {
				lo[i] = val
			}
			if val > hi[i] {
				hi[i] = val
			}
		}
	}

	for _, s := range d.Samples {
		for i := range s.Values {
			diff := hi[i] - lo[i]
			if diff != 0 {
				s.Values[i] = (s.Values[i] - lo[i]) / diff
			} else {
				s.Values[i] = 0
			}
		}
	}
}
