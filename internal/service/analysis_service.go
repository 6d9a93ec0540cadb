package service

import (
	"context"
	"encoding/base64"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "go-land-inspector/internal/errors"
	"go-land-inspector/internal/extractor"
	"go-land-inspector/internal/llm"
	"go-land-inspector/internal/logger"
	"go-land-inspector/internal/observer"
	"go-land-inspector/pkg/models"

	"github.com/sirupsen/logrus"
)

// ErrNoJSON is the failure recorded when the model answered without a
// recoverable JSON object.
var ErrNoJSON = errors.New("failed to parse JSON from model response")

const rawPreviewLength = 500

// AnalysisRequest is one uploaded image plus optional coordinates as sent by
// the client. Lat and Lng are decimal strings; empty means absent.
type AnalysisRequest struct {
	Image     []byte
	MIMEType  string
	Lat       string
	Lng       string
	RequestID string
}

// AnalysisService turns an image into a land suitability report
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*models.AnalysisReport, error)
}

type analysisService struct {
	generator llm.Generator
	opts      AnalysisOptions
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(generator llm.Generator, opts AnalysisOptions) AnalysisService {
	return &analysisService{
		generator: generator,
		opts:      opts.normalized(),
	}
}

// Analyze calls the model up to MaxAttempts times, one attempt after another,
// and returns the first response that yields a JSON object, enriched with the
// image data URI, a timestamp and the coordinates when both were given.
// When every attempt fails the returned error carries the last failure.
func (s *analysisService) Analyze(ctx context.Context, req AnalysisRequest) (*models.AnalysisReport, error) {
	if len(req.Image) == 0 {
		return nil, apperrors.NewValidationError("No image file uploaded.", nil)
	}
	if strings.TrimSpace(req.MIMEType) == "" {
		return nil, apperrors.NewValidationError("missing image MIME type", nil)
	}

	lat, lng := strings.TrimSpace(req.Lat), strings.TrimSpace(req.Lng)
	coords, err := parseCoordinates(lat, lng)
	if err != nil {
		return nil, err
	}

	start := s.opts.Clock.Now()
	s.publish(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		RequestID: req.RequestID,
		Metadata:  map[string]interface{}{"mime_type": req.MIMEType, "image_bytes": len(req.Image)},
	})

	genReq := llm.GenerateRequest{
		Prompt: BuildPrompt(lat, lng),
		Image:  &llm.InlineImage{MIMEType: req.MIMEType, Data: req.Image},
		Model:  s.opts.Model,
	}

	machine := newAttemptMachine(s.opts.MaxAttempts)
	var (
		parsed     map[string]any
		lastReason observer.FailureReason
	)

	for machine.next() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			machine.abort(ctxErr)
			lastReason = observer.ReasonCanceled
			break
		}

		attempt := machine.Attempt()
		s.publish(ctx, observer.AnalysisEvent{
			EventType: observer.AttemptStarted,
			RequestID: req.RequestID,
			Attempt:   attempt,
		})

		text, callErr := s.generate(ctx, genReq)
		if callErr != nil {
			if ctx.Err() != nil {
				machine.abort(ctx.Err())
				lastReason = observer.ReasonCanceled
			} else {
				machine.fail(callErr)
				lastReason = observer.ReasonCallError
			}
			s.publish(ctx, observer.AnalysisEvent{
				EventType:    observer.AttemptFailed,
				RequestID:    req.RequestID,
				Attempt:      attempt,
				Reason:       lastReason,
				ErrorMessage: callErr.Error(),
			})
			continue
		}

		obj, strategy := extractor.ExtractWithStrategy(text)
		if strategy == extractor.StrategyNone {
			machine.fail(ErrNoJSON)
			lastReason = observer.ReasonParseError
			logger.WithFields(logrus.Fields{
				"request_id": req.RequestID,
				"attempt":    attempt,
				"raw":        preview(text),
			}).Debug("Model response contained no JSON object")
			s.publish(ctx, observer.AnalysisEvent{
				EventType:    observer.AttemptFailed,
				RequestID:    req.RequestID,
				Attempt:      attempt,
				Reason:       lastReason,
				ErrorMessage: ErrNoJSON.Error(),
			})
			continue
		}

		machine.succeed()
		parsed = obj
		s.publish(ctx, observer.AnalysisEvent{
			EventType: observer.AttemptSucceeded,
			RequestID: req.RequestID,
			Attempt:   attempt,
			Strategy:  string(strategy),
			Success:   true,
		})
	}

	elapsed := s.opts.Clock.Since(start)

	if machine.State() != stateSucceeded {
		lastErr := machine.LastErr()
		s.publish(ctx, observer.AnalysisEvent{
			EventType:      observer.AnalysisFailed,
			RequestID:      req.RequestID,
			Attempt:        machine.Attempt(),
			Reason:         lastReason,
			ProcessingTime: elapsed,
			ErrorMessage:   lastErr.Error(),
		})
		if lastReason == observer.ReasonParseError {
			return nil, apperrors.NewExtractionError("no valid analysis after all attempts", lastErr)
		}
		return nil, apperrors.NewModelCallError("no valid analysis after all attempts", lastErr)
	}

	report := models.ReportFromMap(parsed)
	report.Image = "data:" + req.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(req.Image)
	report.Timestamp = s.opts.Clock.Now().UTC().Format(models.TimestampLayout)
	report.Coordinates = coords

	s.checkScores(req.RequestID, report)

	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		RequestID:      req.RequestID,
		Attempt:        machine.Attempt(),
		ProcessingTime: elapsed,
		Success:        true,
	})

	return report, nil
}

func (s *analysisService) generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	if s.opts.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.AttemptTimeout)
		defer cancel()
	}
	return s.generator.GenerateContent(ctx, req)
}

// checkScores logs when the model's overall score disagrees with its own
// component scores. The report is returned unchanged.
func (s *analysisService) checkScores(requestID string, report *models.AnalysisReport) {
	if report.Scores == nil || report.Scores.Overall == nil {
		return
	}
	expected, ok := models.ExpectedOverall(report.Scores)
	if !ok {
		return
	}
	if diff := math.Abs(expected - *report.Scores.Overall); diff > s.opts.ScoreTolerance {
		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"reported":   *report.Scores.Overall,
			"expected":   expected,
		}).Warn("Model overall score deviates from weighted components")
	}
}

func (s *analysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	if s.opts.Publisher == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.opts.Clock.Now()
	}
	s.opts.Publisher.NotifyObservers(ctx, event)
}

// parseCoordinates returns nil unless both coordinates are supplied. A
// supplied pair must be decimal numbers; values outside the lat/lng ranges
// are passed through and only logged.
func parseCoordinates(lat, lng string) (*models.Coordinates, error) {
	if lat == "" || lng == "" {
		return nil, nil
	}
	latV, err := parseCoordinate("lat", lat)
	if err != nil {
		return nil, err
	}
	lngV, err := parseCoordinate("lng", lng)
	if err != nil {
		return nil, err
	}
	if math.Abs(latV) > 90 || math.Abs(lngV) > 180 {
		logger.WithFields(logrus.Fields{"lat": latV, "lng": lngV}).
			Warn("Coordinates outside the valid range")
	}
	return &models.Coordinates{Lat: latV, Lng: lngV}, nil
}

func parseCoordinate(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperrors.NewValidationError("Invalid coordinates: "+name+" must be a decimal number.", err)
	}
	return v, nil
}

// preview truncates s to at most rawPreviewLength bytes on a rune boundary.
func preview(s string) string {
	if len(s) <= rawPreviewLength {
		return s
	}
	cut := rawPreviewLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
