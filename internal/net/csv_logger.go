package net

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var csvLogHeader = []string{"iteration", "cost", "time_seconds"}

// CSVLogger writes one row per training block: the block number, the mean
// cost over the training set and the seconds elapsed since training began.
//
// The first failed write is kept and reported by Err; later rows are dropped.
type CSVLogger struct {
	BaseCallback

	name  string
	file  *os.File
	w     *csv.Writer
	start time.Time
	err   error
}

// NewCSVLogger opens filename for progress rows. The file is truncated
// unless appendRows is set, in which case rows follow the existing content.
// The header is written whenever the file starts out empty.
func NewCSVLogger(filename string, appendRows bool) (*CSVLogger, error) {
	mode := os.O_CREATE | os.O_WRONLY
	if appendRows {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(filename, mode, 0o644)
	if err != nil {
		return nil, fmt.Errorf("csv log: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("csv log %s: %w", filename, err)
	}

	c := &CSVLogger{name: filename, file: file, w: csv.NewWriter(file), start: time.Now()}
	if info.Size() == 0 {
		if err := c.write(csvLogHeader); err != nil {
			file.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *CSVLogger) write(record []string) error {
	if err := c.w.Write(record); err != nil {
		return fmt.Errorf("csv log %s: %w", c.name, err)
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("csv log %s: %w", c.name, err)
	}
	return nil
}

func (c *CSVLogger) OnTrainBegin(n *Network) {
	c.start = time.Now()
}

func (c *CSVLogger) OnEpochEnd(epoch int, cost float64, n *Network) {
	if c.err != nil || c.file == nil {
		return
	}
	c.err = c.write([]string{
		strconv.Itoa(epoch),
		strconv.FormatFloat(cost, 'f', 6, 64),
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 2, 64),
	})
}

func (c *CSVLogger) OnTrainEnd(n *Network) {
	c.Close()
}

// Err returns the first write or close error, if any.
func (c *CSVLogger) Err() error {
	return c.err
}

// Close flushes and closes the file. It is safe to call more than once and
// returns the same error as Err.
func (c *CSVLogger) Close() error {
	if c.file == nil {
		return c.err
	}
	c.w.Flush()
	werr := c.w.Error()
	cerr := c.file.Close()
	c.file = nil

	if c.err == nil && werr != nil {
		c.err = fmt.Errorf("csv log %s: %w", c.name, werr)
	}
	if c.err == nil && cerr != nil {
		c.err = fmt.Errorf("csv log %s: %w", c.name, cerr)
	}
	return c.err
}
