package presentation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go-land-inspector/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullReport() *models.AnalysisReport {
	return &models.AnalysisReport{
		LocationSummary: "Gently sloping farmland beside a river.",
		DetectedFeatures: map[string]string{
			models.FeatureTerrain:        "Flat to gentle slope",
			models.FeatureRoads:          "Paved road on the east edge",
			models.FeatureRiskIndicators: "Seasonal flooding near the river",
		},
		Scores: &models.Scores{
			Terrain:            models.Float(8),
			Accessibility:      models.Float(6.5),
			Infrastructure:     models.Float(5),
			EnvironmentalRisk:  models.Float(3.5),
			UrbanCompatibility: models.Float(7),
			Overall:            models.Float(6.1),
			Classification:     "Moderately Suitable",
		},
		RecommendedDevelopment: &models.RecommendedDevelopment{Type: "Residential", Justification: "Good access."},
		PrototypePlan: map[string]string{
			"road_layout":         "Grid",
			"zoning_distribution": "60% residential",
			"water_management":    "Retention ponds",
			"energy":              "Solar",
		},
		Limitations: "Single image only.",
		Timestamp:   "2026-03-04T05:06:07.891Z",
		Coordinates: &models.Coordinates{Lat: 12.5, Lng: -3.25},
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		score float64
		want  Color
	}{
		{10, ColorGreen},
		{8, ColorGreen},
		{7.99, ColorLime},
		{6, ColorLime},
		{5.99, ColorAmber},
		{4, ColorAmber},
		{3.99, ColorRed},
		{0, ColorRed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Band(tt.score), "score %v", tt.score)
	}
}

func TestGaugeProgress(t *testing.T) {
	assert.Equal(t, 0.0, GaugeProgress(-2))
	assert.Equal(t, 0.0, GaugeProgress(0))
	assert.InDelta(t, 0.73, GaugeProgress(7.3), 1e-9)
	assert.Equal(t, 1.0, GaugeProgress(10))
	assert.Equal(t, 1.0, GaugeProgress(12))
}

func TestScoreBars_OrderAndMissing(t *testing.T) {
	bars := ScoreBars(&models.Scores{Terrain: models.Float(9), EnvironmentalRisk: models.Float(4.5)})
	require.Len(t, bars, 5)

	var labels []string
	for _, b := range bars {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"Terrain", "Accessibility", "Infrastructure", "Environmental Risk", "Urban Compatibility"}, labels)
	assert.Equal(t, 9.0, bars[0].Score)
	assert.Equal(t, ColorGreen, bars[0].Color)
	assert.Equal(t, 0.0, bars[1].Score)
	assert.Equal(t, ColorRed, bars[1].Color)
	assert.Equal(t, ColorAmber, bars[3].Color)

	assert.Len(t, ScoreBars(nil), 5)
}

func TestFeatureCards(t *testing.T) {
	cards := FeatureCards(map[string]string{models.FeatureRoads: "Dirt track", "unknown": "ignored"})
	require.Len(t, cards, len(models.FeatureKeys))

	assert.Equal(t, "Terrain", cards[0].Label)
	assert.Equal(t, NotDetected, cards[0].Value)
	assert.False(t, cards[0].Detected)

	assert.Equal(t, "Roads & Access", cards[3].Label)
	assert.Equal(t, "Dirt track", cards[3].Value)
	assert.True(t, cards[3].Detected)

	last := cards[len(cards)-1]
	assert.Equal(t, "Risk Indicators", last.Label)
	assert.True(t, last.Risk)
}

func TestPlanItems_KnownFirstThenAlphabetical(t *testing.T) {
	items := PlanItems(fullReport().PrototypePlan)

	var keys []string
	for _, it := range items {
		keys = append(keys, it.Key)
	}
	assert.Equal(t, []string{"zoning_distribution", "road_layout", "energy", "water_management"}, keys)
	assert.Equal(t, "Zoning Distribution", items[0].Label)
	assert.Equal(t, "Water Management", items[3].Label)

	assert.Empty(t, PlanItems(nil))
}

func TestKeyLabel(t *testing.T) {
	assert.Equal(t, "Green Space Plan", KeyLabel("green_space_plan"))
	assert.Equal(t, "Energy", KeyLabel("energy"))
	assert.Equal(t, "A B", KeyLabel("a__b"))
	assert.Equal(t, "", KeyLabel(""))
}

func TestNewReportView_Defaults(t *testing.T) {
	v := NewReportView(nil)
	assert.Equal(t, NotAvailable, v.LocationSummary)
	assert.Equal(t, NotAvailable, v.DevelopmentType)
	assert.Equal(t, NotAvailable, v.Justification)
	assert.Equal(t, 0.0, v.Overall)
	assert.Equal(t, ColorRed, v.OverallColor)
	assert.Empty(t, v.Classification)
	assert.Empty(t, v.Limitations)

	v = NewReportView(&models.AnalysisReport{
		RecommendedDevelopment: &models.RecommendedDevelopment{Type: "Commercial"},
		Limitations:            "   ",
	})
	assert.Equal(t, "Commercial", v.DevelopmentType)
	assert.Equal(t, NotAvailable, v.Justification)
	assert.Empty(t, v.Limitations)
}

func TestNormalizeClassification(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Highly Suitable", models.ClassHighlySuitable, true},
		{"moderately suitable for housing", models.ClassModeratelySuitable, true},
		{"LOW SUITABILITY", models.ClassLowSuitability, true},
		{"Not Suitable", models.ClassNotSuitable, true},
		{"Hihgly Suitable", models.ClassHighlySuitable, true},
		{"Moderatly Suitable", models.ClassModeratelySuitable, true},
		{"Suitable", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeClassification(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestClassificationColor(t *testing.T) {
	assert.Equal(t, ColorGray, ClassificationColor(""))
	assert.Equal(t, ColorGreen, ClassificationColor("Highly Suitable"))
	assert.Equal(t, ColorLime, ClassificationColor("Moderately Suitable"))
	assert.Equal(t, ColorAmber, ClassificationColor("Low Suitability"))
	assert.Equal(t, ColorRed, ClassificationColor("Not Suitable"))
	assert.Equal(t, ColorRed, ClassificationColor("Questionable"))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "7.5/10", FormatScore(7.5))
	assert.Equal(t, "8/10", FormatScore(8))
	assert.Equal(t, "2026-03-04 05:06:07 UTC", FormatTimestamp("2026-03-04T05:06:07.891Z"))
	assert.Equal(t, "yesterday", FormatTimestamp("yesterday"))
	assert.Equal(t, "12.5, -3.25", FormatCoordinates(&models.Coordinates{Lat: 12.5, Lng: -3.25}))
	assert.Equal(t, "", FormatCoordinates(nil))
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, fullReport()))
	out := buf.String()

	for _, want := range []string{
		"Generated:   2026-03-04 05:06:07 UTC",
		"Coordinates: 12.5, -3.25",
		"6.1/10  Moderately Suitable",
		"Environmental Risk",
		"3.5/10",
		"! Risk Indicators:",
		"Vegetation Density: Not detected",
		"Type:          Residential",
		"Zoning Distribution: 60% residential",
		"Limitations",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Road Layout"), strings.Index(out, "Energy"))
}

func TestRenderText_MinimalReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, &models.AnalysisReport{}))
	out := buf.String()

	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "0/10")
	assert.NotContains(t, out, "Limitations")
	assert.NotContains(t, out, "Prototype Development Plan")
	assert.NotContains(t, out, "Coordinates:")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, fmt.Errorf("disk full") }

func TestRenderText_WriteError(t *testing.T) {
	assert.EqualError(t, RenderText(failingWriter{}, fullReport()), "disk full")
}

func fixedNow() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

func pdfContent(t *testing.T, r *models.AnalysisReport) (string, int) {
	t.Helper()
	pdf := renderPDF(r, fixedNow)
	pages := pdf.PageCount()
	pdf.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.String(), pages
}

func TestRenderPDF_SinglePage(t *testing.T) {
	out, pages := pdfContent(t, &models.AnalysisReport{})
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Equal(t, 1, pages)
	assert.Contains(t, out, "(Page 1 of 1)")
	assert.Contains(t, out, "(None noted.)")
	assert.Contains(t, out, "(N/A)")
	assert.Contains(t, out, "(Generated: 2026-01-02 03:04:05 UTC)")
}

func TestRenderPDF_PaginatesLongReports(t *testing.T) {
	r := fullReport()
	for i := 0; i < 40; i++ {
		r.PrototypePlan[fmt.Sprintf("extra_item_%02d", i)] = "Additional planning detail"
	}

	out, pages := pdfContent(t, r)
	require.Greater(t, pages, 1)
	for i := 1; i <= pages; i++ {
		assert.Contains(t, out, fmt.Sprintf("(Page %d of %d)", i, pages))
	}
	assert.Contains(t, out, "(Generated: 2026-03-04 05:06:07 UTC)")
	assert.Contains(t, out, "(Coordinates: 12.5, -3.25)")
}

func TestExportPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportPDF(&buf, fullReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSavePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	got, err := SavePDF(path, fullReport())
	require.NoError(t, err)
	assert.Equal(t, path, got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSavePDF_DefaultName(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	got, err := SavePDF("", &models.AnalysisReport{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPDFName, got)
	_, err = os.Stat(DefaultPDFName)
	assert.NoError(t, err)
}

func TestNewReportView_NormalizesClassification(t *testing.T) {
	r := fullReport()
	r.Scores.Classification = " moderatly suitable "
	v := NewReportView(r)
	assert.Equal(t, models.ClassModeratelySuitable, v.Classification)
	assert.Equal(t, ColorLime, v.ClassificationColor)

	r.Scores.Classification = "Hihgly Suitable"
	assert.Equal(t, models.ClassHighlySuitable, NewReportView(r).Classification)

	r.Scores.Classification = "  Unclear  "
	v = NewReportView(r)
	assert.Equal(t, "Unclear", v.Classification)
	assert.Equal(t, ColorRed, v.ClassificationColor)

	assert.Equal(t, ColorGray, NewReportView(nil).ClassificationColor)
}

func TestRenderText_ShowsCanonicalClassification(t *testing.T) {
	r := fullReport()
	r.Scores.Classification = "Hihgly Suitable"
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, r))
	assert.Contains(t, buf.String(), "6.1/10  Highly Suitable")
}

func TestRenderPDF_ShowsCanonicalClassification(t *testing.T) {
	r := fullReport()
	r.Scores.Classification = "low suitabilty"
	out, _ := pdfContent(t, r)
	assert.Contains(t, out, "(Low Suitability)")
}
