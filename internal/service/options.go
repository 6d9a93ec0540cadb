package service

import (
	"time"

	"go-land-inspector/internal/observer"

	"github.com/jonboulle/clockwork"
)

// AnalysisOptions configures the analysis service
type AnalysisOptions struct {
	// MaxAttempts is the total number of model calls, including the first.
	MaxAttempts int
	// AttemptTimeout bounds each model call; zero means only the caller's context applies.
	AttemptTimeout time.Duration
	// Model overrides the generator's default model.
	Model string

	// ScoreTolerance is how far the model's overall score may drift from the
	// weighted components before a warning is logged.
	ScoreTolerance float64

	Clock     clockwork.Clock
	Publisher observer.Subject
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		MaxAttempts:    3,
		AttemptTimeout: 60 * time.Second,
		ScoreTolerance: 0.1,
		Clock:          clockwork.NewRealClock(),
	}
}

// WithPublisher returns a copy of the options that reports events to p.
func (o AnalysisOptions) WithPublisher(p observer.Subject) AnalysisOptions {
	o.Publisher = p
	return o
}

// WithClock returns a copy of the options using clock for report timestamps.
func (o AnalysisOptions) WithClock(clock clockwork.Clock) AnalysisOptions {
	o.Clock = clock
	return o
}

func (o AnalysisOptions) normalized() AnalysisOptions {
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.ScoreTolerance <= 0 {
		o.ScoreTolerance = 0.1
	}
	return o
}
