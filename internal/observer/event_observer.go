package observer

import (
	"context"
	"sync"
	"time"

	"go-land-inspector/internal/logger"

	"github.com/sirupsen/logrus"
)

// AnalysisEvent represents an analysis event
type AnalysisEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id,omitempty"`
	Attempt        int                    `json:"attempt,omitempty"`
	Strategy       string                 `json:"strategy,omitempty"`
	Reason         FailureReason          `json:"reason,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of analysis event
type EventType string

const (
	// AnalysisStarted when an analysis begins
	AnalysisStarted EventType = "analysis_started"
	// AttemptStarted before each model call
	AttemptStarted EventType = "attempt_started"
	// AttemptSucceeded when a model answer was extracted
	AttemptSucceeded EventType = "attempt_succeeded"
	// AttemptFailed when a model call errored or its output had no JSON
	AttemptFailed EventType = "attempt_failed"
	// AnalysisCompleted when a report was produced
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisFailed when all attempts were used up
	AnalysisFailed EventType = "analysis_failed"
)

// FailureReason classifies a failed attempt or analysis.
type FailureReason string

const (
	ReasonCallError  FailureReason = "call_error"
	ReasonParseError FailureReason = "parse_error"
	ReasonCanceled   FailureReason = "canceled"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event AnalysisEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event AnalysisEvent)
}

// LoggingObserver logs analysis events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles analysis events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"success":    event.Success,
	}

	if event.RequestID != "" {
		fields["request_id"] = event.RequestID
	}
	if event.Attempt > 0 {
		fields["attempt"] = event.Attempt
	}
	if event.Strategy != "" {
		fields["strategy"] = event.Strategy
	}
	if event.Reason != "" {
		fields["reason"] = event.Reason
	}
	if event.ProcessingTime > 0 {
		fields["processing_time_ms"] = event.ProcessingTime.Milliseconds()
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case AnalysisStarted:
		entry.Info("Land analysis started")
	case AttemptStarted:
		entry.Debug("Calling model")
	case AttemptSucceeded:
		entry.Debug("Model response parsed")
	case AttemptFailed:
		entry.Warn("Model attempt failed")
	case AnalysisCompleted:
		entry.Info("Land analysis completed")
	case AnalysisFailed:
		entry.Error("Land analysis failed")
	default:
		entry.Info("Analysis event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver feeds analysis events into Prometheus collectors.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver(metrics *Metrics) Observer {
	return &MetricsObserver{metrics: metrics}
}

// OnEvent handles analysis events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event AnalysisEvent) {
	m := o.metrics
	switch event.EventType {
	case AttemptSucceeded:
		m.AttemptsTotal.WithLabelValues("success").Inc()
		if event.Strategy != "" {
			m.ExtractionsTotal.WithLabelValues(event.Strategy).Inc()
		}
	case AttemptFailed:
		m.AttemptsTotal.WithLabelValues(string(event.Reason)).Inc()
	case AnalysisCompleted:
		m.AnalysesTotal.WithLabelValues("success").Inc()
		m.AnalysisDuration.Observe(event.ProcessingTime.Seconds())
		m.AttemptsPerReport.Observe(float64(event.Attempt))
	case AnalysisFailed:
		m.AnalysesTotal.WithLabelValues(analysisOutcome(event.Reason)).Inc()
		m.AnalysisDuration.Observe(event.ProcessingTime.Seconds())
		m.AttemptsPerReport.Observe(float64(event.Attempt))
	}
}

func analysisOutcome(reason FailureReason) string {
	switch reason {
	case ReasonCallError:
		return "model_call"
	case ReasonParseError:
		return "extraction"
	case ReasonCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers the event to every observer in subscription
// order, on the caller's goroutine. A panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event AnalysisEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event AnalysisEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
