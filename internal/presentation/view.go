// Package presentation turns analysis reports into client-side views: the
// dashboard view model, a plain-text rendering and a PDF export.
package presentation

import (
	"sort"
	"strconv"
	"strings"

	"go-land-inspector/pkg/models"
)

// NotAvailable fills missing text fields.
const NotAvailable = "N/A"

// NotDetected fills feature cards the model left empty.
const NotDetected = "Not detected"

// Color is an RGB triple.
type Color struct {
	R, G, B int
}

var (
	ColorGreen = Color{34, 197, 94}
	ColorLime  = Color{132, 204, 22}
	ColorAmber = Color{245, 158, 11}
	ColorRed   = Color{239, 68, 68}
	ColorGray  = Color{156, 163, 175}
)

// Band returns the display colour for a score, banded at the same
// thresholds as models.Classify.
func Band(score float64) Color {
	switch {
	case score >= models.HighlySuitableThreshold:
		return ColorGreen
	case score >= models.ModeratelySuitableThreshold:
		return ColorLime
	case score >= models.LowSuitabilityThreshold:
		return ColorAmber
	default:
		return ColorRed
	}
}

// GaugeProgress is the filled fraction of the overall score gauge.
func GaugeProgress(overall float64) float64 {
	switch {
	case overall <= 0:
		return 0
	case overall >= 10:
		return 1
	default:
		return overall / 10
	}
}

// FormatScore prints a score without trailing zeros, e.g. "7.5/10".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "/10"
}

type ScoreBar struct {
	Label string
	Score float64
	Color Color
}

type FeatureCard struct {
	Key   string
	Label string
	Value string
	Risk  bool
	// Detected is false when Value is the NotDetected placeholder.
	Detected bool
}

type PlanItem struct {
	Key   string
	Label string
	Value string
}

var featureLabels = map[string]string{
	models.FeatureTerrain:          "Terrain",
	models.FeatureVegetation:       "Vegetation Density",
	models.FeatureWaterBodies:      "Water Bodies",
	models.FeatureRoads:            "Roads & Access",
	models.FeatureNearbyStructures: "Nearby Structures",
	models.FeatureUrbanDensity:     "Urban Density",
	models.FeatureRiskIndicators:   "Risk Indicators",
}

// ScoreBars returns the five component bars in display order. Missing
// components read as zero.
func ScoreBars(s *models.Scores) []ScoreBar {
	if s == nil {
		s = &models.Scores{}
	}
	bars := []ScoreBar{
		{Label: "Terrain", Score: value(s.Terrain)},
		{Label: "Accessibility", Score: value(s.Accessibility)},
		{Label: "Infrastructure", Score: value(s.Infrastructure)},
		{Label: "Environmental Risk", Score: value(s.EnvironmentalRisk)},
		{Label: "Urban Compatibility", Score: value(s.UrbanCompatibility)},
	}
	for i := range bars {
		bars[i].Color = Band(bars[i].Score)
	}
	return bars
}

// FeatureCards returns one card per known feature key in display order.
func FeatureCards(features map[string]string) []FeatureCard {
	cards := make([]FeatureCard, 0, len(models.FeatureKeys))
	for _, key := range models.FeatureKeys {
		card := FeatureCard{
			Key:   key,
			Label: featureLabels[key],
			Value: features[key],
			Risk:  key == models.FeatureRiskIndicators,
		}
		card.Detected = card.Value != ""
		if !card.Detected {
			card.Value = NotDetected
		}
		cards = append(cards, card)
	}
	return cards
}

// PlanItems orders the prototype plan with the known keys first, then any
// other keys alphabetically. Empty values are kept.
func PlanItems(plan map[string]string) []PlanItem {
	items := make([]PlanItem, 0, len(plan))
	seen := make(map[string]bool, len(models.PlanKeys))
	for _, key := range models.PlanKeys {
		seen[key] = true
		if v, ok := plan[key]; ok {
			items = append(items, PlanItem{Key: key, Label: KeyLabel(key), Value: v})
		}
	}

	var extra []string
	for key := range plan {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		items = append(items, PlanItem{Key: key, Label: KeyLabel(key), Value: plan[key]})
	}
	return items
}

// KeyLabel turns a snake_case key into title-cased words.
func KeyLabel(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// ReportView is everything the dashboard and exporters display for one report.
type ReportView struct {
	LocationSummary string
	Overall         float64
	OverallColor    Color
	Gauge           float64
	// Classification is the canonical label when the model's text matches one.
	Classification      string
	ClassificationColor Color
	Bars            []ScoreBar
	Features        []FeatureCard
	DevelopmentType string
	Justification   string
	Plan            []PlanItem
	// Limitations is empty when the report noted none.
	Limitations string
	Timestamp   string
	Coordinates *models.Coordinates
}

// NewReportView builds the view for r. A nil report yields an all-default view.
func NewReportView(r *models.AnalysisReport) *ReportView {
	if r == nil {
		r = &models.AnalysisReport{}
	}
	overall := r.OverallScore()
	v := &ReportView{
		LocationSummary: orNA(r.LocationSummary),
		Overall:         overall,
		OverallColor:    Band(overall),
		Gauge:           GaugeProgress(overall),
		Bars:            ScoreBars(r.Scores),
		Features:        FeatureCards(r.DetectedFeatures),
		DevelopmentType: NotAvailable,
		Justification:   NotAvailable,
		Plan:            PlanItems(r.PrototypePlan),
		Limitations:     strings.TrimSpace(r.Limitations),
		Timestamp:       r.Timestamp,
		Coordinates:     r.Coordinates,
	}
	if r.Scores != nil {
		v.Classification = DisplayClassification(r.Scores.Classification)
	}
	v.ClassificationColor = ClassificationColor(v.Classification)
	if d := r.RecommendedDevelopment; d != nil {
		v.DevelopmentType = orNA(d.Type)
		v.Justification = orNA(d.Justification)
	}
	return v
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
