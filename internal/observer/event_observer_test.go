package observer

import (
	"context"
	"testing"
	"time"

	"go-land-inspector/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

type recordingObserver struct {
	name   string
	events []AnalysisEvent
}

func (r *recordingObserver) OnEvent(_ context.Context, e AnalysisEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) GetObserverName() string { return r.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(context.Context, AnalysisEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                { return "panicky" }

func TestEventPublisher_NotifiesSynchronouslyInOrder(t *testing.T) {
	pub := NewEventPublisher()
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	pub.Subscribe(first)
	pub.Subscribe(panickingObserver{})
	pub.Subscribe(second)

	pub.NotifyObservers(context.Background(), AnalysisEvent{EventType: AttemptStarted, Attempt: 1})
	pub.NotifyObservers(context.Background(), AnalysisEvent{EventType: AttemptFailed, Attempt: 1})

	// Delivery happens before NotifyObservers returns, and a panic does not stop later observers.
	require.Len(t, first.events, 2)
	require.Len(t, second.events, 2)
	assert.Equal(t, AttemptStarted, first.events[0].EventType)
	assert.Equal(t, AttemptFailed, second.events[1].EventType)
	assert.False(t, first.events[0].Timestamp.IsZero())
}

func TestEventPublisher_LogsObserverPanic(t *testing.T) {
	hook := test.NewLocal(logger.Logger)
	t.Cleanup(func() { logger.Logger.ReplaceHooks(make(logrus.LevelHooks)) })

	pub := NewEventPublisher()
	pub.Subscribe(panickingObserver{})
	pub.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Observer panicked while handling event", entry.Message)
	assert.Equal(t, "panicky", entry.Data["observer"])
	assert.Equal(t, "boom", entry.Data["panic"])
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	pub := NewEventPublisher()
	obs := &recordingObserver{name: "rec"}
	pub.Subscribe(obs)
	pub.Unsubscribe(obs)

	pub.NotifyObservers(context.Background(), AnalysisEvent{EventType: AnalysisStarted})
	assert.Empty(t, obs.events)
}

func TestMetricsObserver(t *testing.T) {
	m := NewMetricsForTesting()
	obs := NewMetricsObserver(m)
	ctx := context.Background()

	obs.OnEvent(ctx, AnalysisEvent{EventType: AttemptFailed, Reason: ReasonParseError, Attempt: 1})
	obs.OnEvent(ctx, AnalysisEvent{EventType: AttemptFailed, Reason: ReasonCallError, Attempt: 2})
	obs.OnEvent(ctx, AnalysisEvent{EventType: AttemptSucceeded, Strategy: "fenced", Attempt: 3})
	obs.OnEvent(ctx, AnalysisEvent{EventType: AnalysisCompleted, Attempt: 3, ProcessingTime: 2 * time.Second})
	obs.OnEvent(ctx, AnalysisEvent{EventType: AnalysisFailed, Reason: ReasonCallError, Attempt: 3, ProcessingTime: time.Second})

	assert.Equal(t, 1.0, counterValue(t, m.AttemptsTotal.WithLabelValues("parse_error")))
	assert.Equal(t, 1.0, counterValue(t, m.AttemptsTotal.WithLabelValues("call_error")))
	assert.Equal(t, 1.0, counterValue(t, m.AttemptsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, counterValue(t, m.ExtractionsTotal.WithLabelValues("fenced")))
	assert.Equal(t, 1.0, counterValue(t, m.AnalysesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, counterValue(t, m.AnalysesTotal.WithLabelValues("model_call")))
	assert.Equal(t, uint64(2), histogramCount(t, m.AnalysisDuration))
}

func TestMetrics_RejectUpload(t *testing.T) {
	m := NewMetricsForTesting()
	m.RejectUpload("type")
	m.RejectUpload("type")

	assert.Equal(t, 2.0, counterValue(t, m.UploadRejections.WithLabelValues("type")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RejectUpload("size") })
}

func TestLoggingObserver_Levels(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	obs := NewLoggingObserver(logger)

	obs.OnEvent(context.Background(), AnalysisEvent{
		EventType:    AttemptFailed,
		RequestID:    "req-1",
		Attempt:      2,
		Reason:       ReasonParseError,
		ErrorMessage: "failed to parse JSON from model response",
	})
	obs.OnEvent(context.Background(), AnalysisEvent{EventType: AnalysisFailed, Attempt: 3})

	require.Len(t, hook.AllEntries(), 2)
	warn := hook.AllEntries()[0]
	assert.Equal(t, logrus.WarnLevel, warn.Level)
	assert.Equal(t, "req-1", warn.Data["request_id"])
	assert.Equal(t, 2, warn.Data["attempt"])
	assert.Equal(t, ReasonParseError, warn.Data["reason"])
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
