package net

import (
	"log/slog"
	"math"
)

// Callback defines the interface for training callbacks.
type Callback interface {
	OnTrainBegin(n *Network)
	OnTrainEnd(n *Network)
	OnEpochBegin(epoch int, n *Network)
	OnEpochEnd(epoch int, cost float64, n *Network)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                        {}
func (c BaseCallback) OnTrainEnd(n *Network)                          {}
func (c BaseCallback) OnEpochBegin(epoch int, n *Network)             {}
func (c BaseCallback) OnEpochEnd(epoch int, cost float64, n *Network) {}

// EarlyStopping stops training when the cost has stopped improving.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64

	bestCost     float64
	numBadEpochs int
	Stopped      bool
	Log          *slog.Logger
}

func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
		bestCost:  math.MaxFloat64,
	}
}

func (c *EarlyStopping) OnEpochEnd(epoch int, cost float64, n *Network) {
	if cost < c.bestCost-c.Threshold {
		c.bestCost = cost
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if c.numBadEpochs >= c.Patience {
		logger(c.Log).Info("early stopping", "iteration", epoch, "cost", cost, "patience", c.Patience)
		c.Stopped = true
	}
}

// ShouldStop reports whether training should end.
func (c *EarlyStopping) ShouldStop() bool {
	return c.Stopped
}

// Logger logs training progress every Interval iterations.
type Logger struct {
	BaseCallback
	Interval int
	Log      *slog.Logger
}

func (c Logger) OnEpochEnd(epoch int, cost float64, n *Network) {
	if c.Interval > 0 && epoch%c.Interval == 0 {
		logger(c.Log).Info("training progress", "iteration", epoch, "cost", cost)
	}
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
