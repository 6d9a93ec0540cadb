package presentation

import (
	"fmt"
	"io"
	"strings"

	"go-land-inspector/pkg/models"
)

// RenderText writes a plain-text report for terminals.
func RenderText(w io.Writer, r *models.AnalysisReport) error {
	v := NewReportView(r)
	tw := &textWriter{w: w}

	tw.line("LAND SUITABILITY ANALYSIS")
	if v.Timestamp != "" {
		tw.line("Generated:   %s", FormatTimestamp(v.Timestamp))
	}
	if v.Coordinates != nil {
		tw.line("Coordinates: %s", FormatCoordinates(v.Coordinates))
	}

	tw.section("Location Summary")
	tw.line("%s", v.LocationSummary)

	tw.section("Overall Suitability Score")
	overall := FormatScore(v.Overall)
	if v.Classification != "" {
		overall += "  " + v.Classification
	}
	tw.line("%s  %s", gaugeBar(v.Gauge, 20), overall)

	tw.section("Score Breakdown")
	for _, b := range v.Bars {
		tw.line("%-20s %s %s", b.Label, gaugeBar(GaugeProgress(b.Score), 20), FormatScore(b.Score))
	}

	tw.section("Detected Features")
	for _, f := range v.Features {
		marker := " "
		if f.Risk && f.Detected {
			marker = "!"
		}
		tw.line("%s %-18s %s", marker, f.Label+":", f.Value)
	}

	tw.section("Recommended Development")
	tw.line("Type:          %s", v.DevelopmentType)
	tw.line("Justification: %s", v.Justification)

	if len(v.Plan) > 0 {
		tw.section("Prototype Development Plan")
		for _, p := range v.Plan {
			tw.line("%s: %s", p.Label, orNA(p.Value))
		}
	}

	if v.Limitations != "" {
		tw.section("Limitations")
		tw.line("%s", v.Limitations)
	}

	return tw.err
}

// textWriter keeps the first write error so callers check once.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

func (t *textWriter) section(title string) {
	t.line("")
	t.line("%s", title)
	t.line("%s", strings.Repeat("-", len(title)))
}

func gaugeBar(progress float64, width int) string {
	filled := int(progress*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
