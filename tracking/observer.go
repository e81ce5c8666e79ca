// SPDX-License-Identifier: MIT

package tracking

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/homotopy/multiprec"
)

// EventKind classifies tracker events.
type EventKind int

const (
	// Initializing is emitted once before the first step.
	Initializing EventKind = iota
	// NewStep is emitted before each step attempt.
	NewStep
	// SuccessfulStep is emitted after an accepted step.
	SuccessfulStep
	// FailedStep is emitted after a rejected step.
	FailedStep
	// PrecisionChanged is emitted when the working precision moves.
	PrecisionChanged
	// HigherPrecisionNecessary is emitted when a criterion asks for more digits.
	HigherPrecisionNecessary
	// SingularStartPoint is emitted when the initial correction hits a singular Jacobian.
	SingularStartPoint
	// MatrixSolveFailureEvent is emitted when a linear solve fails during a step.
	MatrixSolveFailureEvent
	// InfinitePathTruncation is emitted when the point norm crosses the threshold.
	InfinitePathTruncation
	// TrackingEnded is emitted exactly once with the terminal code.
	TrackingEnded
)

var eventKindNames = [...]string{
	Initializing:             "Initializing",
	NewStep:                  "NewStep",
	SuccessfulStep:           "SuccessfulStep",
	FailedStep:               "FailedStep",
	PrecisionChanged:         "PrecisionChanged",
	HigherPrecisionNecessary: "HigherPrecisionNecessary",
	SingularStartPoint:       "SingularStartPoint",
	MatrixSolveFailureEvent:  "MatrixSolveFailure",
	InfinitePathTruncation:   "InfinitePathTruncation",
	TrackingEnded:            "TrackingEnded",
}

// String implements fmt.Stringer.
func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "EventKind(?)"
}

// Event is a snapshot of the tracker at one moment. Point is a private copy
// and may be retained by the observer.
type Event struct {
	Kind              EventKind
	Step              int
	T                 complex128
	Point             *multiprec.Vector
	StepSize          float64
	Precision         multiprec.Precision
	PreviousPrecision multiprec.Precision
	Code              SuccessCode
}

// Observer receives tracker events synchronously, on the tracking goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) { f(e) }

// notifier fans events out to the observers of one call.
type notifier []Observer

func (n notifier) emit(e Event) {
	for _, o := range n {
		o.Observe(e)
	}
}

func (n notifier) active() bool { return len(n) > 0 }

// PrecisionAccumulator records the precision of every accepted step.
// It is safe for concurrent use.
type PrecisionAccumulator struct {
	mu         sync.Mutex
	precisions []multiprec.Precision
}

// Observe implements Observer.
func (a *PrecisionAccumulator) Observe(e Event) {
	if e.Kind != SuccessfulStep {
		return
	}
	a.mu.Lock()
	a.precisions = append(a.precisions, e.Precision)
	a.mu.Unlock()
}

// Precisions returns a copy of the recorded schedule.
func (a *PrecisionAccumulator) Precisions() []multiprec.Precision {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]multiprec.Precision(nil), a.precisions...)
}

// Max returns the largest recorded precision, 0 if none.
func (a *PrecisionAccumulator) Max() multiprec.Precision {
	a.mu.Lock()
	defer a.mu.Unlock()
	return multiprec.MaxOf(a.precisions...)
}

// PathPoint is one accepted (t, x) sample of a path.
type PathPoint struct {
	T     complex128
	Point []complex128
}

// PathAccumulator records the accepted points of a path in double precision.
// It is safe for concurrent use.
type PathAccumulator struct {
	mu     sync.Mutex
	points []PathPoint
}

// Observe implements Observer.
func (a *PathAccumulator) Observe(e Event) {
	if (e.Kind != SuccessfulStep && e.Kind != Initializing) || e.Point == nil {
		return
	}
	a.mu.Lock()
	a.points = append(a.points, PathPoint{T: e.T, Point: e.Point.Complex128s()})
	a.mu.Unlock()
}

// Points returns the recorded samples in order.
func (a *PathAccumulator) Points() []PathPoint {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]PathPoint(nil), a.points...)
}

// StepFailCounter counts accepted and rejected steps.
type StepFailCounter struct {
	mu        sync.Mutex
	succeeded int
	failed    int
}

// Observe implements Observer.
func (c *StepFailCounter) Observe(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch e.Kind {
	case SuccessfulStep:
		c.succeeded++
	case FailedStep:
		c.failed++
	}
}

// Counts returns (successful, failed) step counts.
func (c *StepFailCounter) Counts() (succeeded, failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.succeeded, c.failed
}

// LogObserver writes events to a logrus logger. Step-level events go to
// Debug, precision changes and terminal events to Info.
func LogObserver(log logrus.FieldLogger) Observer {
	return ObserverFunc(func(e Event) {
		entry := log.WithFields(logrus.Fields{
			"event":     e.Kind.String(),
			"step":      e.Step,
			"t":         e.T,
			"precision": uint(e.Precision),
		})
		switch e.Kind {
		case NewStep, SuccessfulStep, FailedStep, HigherPrecisionNecessary:
			entry.WithField("step_size", e.StepSize).Debug("tracking step")
		case PrecisionChanged:
			entry.WithField("previous_precision", uint(e.PreviousPrecision)).Info("precision changed")
		case TrackingEnded:
			entry.WithField("code", e.Code.String()).Info("tracking ended")
		default:
			entry.Info("tracking event")
		}
	})
}
