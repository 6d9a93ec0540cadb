package presentation

import (
	"fmt"
	"io"
	"os"
	"time"

	"go-land-inspector/pkg/models"

	"github.com/go-pdf/fpdf"
)

// DefaultPDFName is the file name used when the caller does not pick one.
const DefaultPDFName = "Land_Suitability_Report.pdf"

const (
	pdfMargin = 15.0
	// Section headers start a new page below this y; rows below rowBreakY.
	headerBreakY = 260.0
	rowBreakY    = 275.0
	pageTopY     = 20.0
	lineHeight   = 5.0
)

var (
	colorHeaderBg = Color{10, 15, 30}
	colorSection  = Color{17, 24, 39}
	colorMuted    = Color{160, 174, 192}
	colorBody     = Color{226, 232, 240}
	colorTrack    = Color{30, 41, 59}
	colorFooter   = Color{100, 116, 139}
)

// ExportPDF writes r as an A4 report to w.
func ExportPDF(w io.Writer, r *models.AnalysisReport) error {
	pdf := renderPDF(r, time.Now)
	return pdf.Output(w)
}

// SavePDF writes the report to path, or DefaultPDFName when path is empty,
// and returns the path written.
func SavePDF(path string, r *models.AnalysisReport) (string, error) {
	if path == "" {
		path = DefaultPDFName
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := ExportPDF(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("render pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

type pdfReport struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	y            float64
	pageWidth    float64
	contentWidth float64
}

func renderPDF(r *models.AnalysisReport, now func() time.Time) *fpdf.Fpdf {
	v := NewReportView(r)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Land Suitability Analysis Report", true)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	p := &pdfReport{
		pdf:          pdf,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		pageWidth:    pageWidth,
		contentWidth: pageWidth - 2*pdfMargin,
	}

	p.header(v, now)

	p.sectionHeader("Location Summary")
	p.paragraph(v.LocationSummary, 6)

	p.sectionHeader("Overall Suitability Score")
	p.setTextColor(v.OverallColor)
	pdf.SetFont("Helvetica", "B", 28)
	pdf.Text(pdfMargin+10, p.y+8, FormatScore(v.Overall))
	pdf.SetFont("Helvetica", "B", 11)
	p.setTextColor(v.ClassificationColor)
	pdf.Text(pdfMargin+50, p.y+8, p.tr(v.Classification))
	p.y += 20

	p.sectionHeader("Score Breakdown")
	for _, b := range v.Bars {
		p.scoreBar(b)
	}
	p.y += 4

	p.sectionHeader("Detected Features")
	for _, f := range v.Features {
		if f.Detected {
			p.labeled(f.Label, f.Value)
		}
	}
	p.y += 4

	p.sectionHeader("Recommended Development")
	p.labeled("Type", v.DevelopmentType)
	p.labeled("Justification", v.Justification)
	p.y += 4

	p.sectionHeader("Prototype Development Plan")
	for _, item := range v.Plan {
		p.labeled(item.Label, item.Value)
	}
	p.y += 4

	p.sectionHeader("Limitations")
	limitations := v.Limitations
	if limitations == "" {
		limitations = "None noted."
	}
	p.paragraph(limitations, 10)

	p.footers()
	return pdf
}

func (p *pdfReport) header(v *ReportView, now func() time.Time) {
	pdf := p.pdf
	p.setFillColor(colorHeaderBg)
	pdf.Rect(0, 0, p.pageWidth, 40, "F")
	p.setFillColor(ColorGreen)
	pdf.Rect(0, 38, p.pageWidth, 2, "F")

	p.setTextColor(ColorGreen)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.Text(pdfMargin, 18, "Land Suitability Analysis Report")

	generated := now().UTC().Format(time.RFC3339)
	if v.Timestamp != "" {
		generated = v.Timestamp
	}
	p.setTextColor(colorMuted)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(pdfMargin, 28, "Generated: "+FormatTimestamp(generated))
	if v.Coordinates != nil {
		pdf.Text(pdfMargin, 33, "Coordinates: "+FormatCoordinates(v.Coordinates))
	}
	p.y = 50
}

func (p *pdfReport) breakIfBelow(limit float64) {
	if p.y > limit {
		p.pdf.AddPage()
		p.y = pageTopY
	}
}

func (p *pdfReport) sectionHeader(title string) {
	p.breakIfBelow(headerBreakY)
	p.setFillColor(colorSection)
	p.pdf.RoundedRect(pdfMargin, p.y-4, p.contentWidth, 10, 2, "1234", "F")
	p.setTextColor(ColorGreen)
	p.pdf.SetFont("Helvetica", "B", 12)
	p.pdf.Text(pdfMargin+4, p.y+3, title)
	p.y += 14
}

func (p *pdfReport) paragraph(text string, after float64) {
	p.setTextColor(colorBody)
	p.pdf.SetFont("Helvetica", "", 9)
	lines := p.pdf.SplitText(text, p.contentWidth-4)
	for i, line := range lines {
		p.pdf.Text(pdfMargin+2, p.y+float64(i)*lineHeight, p.tr(line))
	}
	p.y += float64(len(lines))*lineHeight + after
}

func (p *pdfReport) labeled(label, value string) {
	p.breakIfBelow(rowBreakY)
	p.setTextColor(colorMuted)
	p.pdf.SetFont("Helvetica", "B", 9)
	p.pdf.Text(pdfMargin+2, p.y, p.tr(label+":"))

	p.setTextColor(colorBody)
	p.pdf.SetFont("Helvetica", "", 9)
	lines := p.pdf.SplitText(orNA(value), p.contentWidth-40)
	for i, line := range lines {
		p.pdf.Text(pdfMargin+42, p.y+float64(i)*lineHeight, p.tr(line))
	}
	p.y += float64(len(lines))*lineHeight + 3
}

func (p *pdfReport) scoreBar(b ScoreBar) {
	p.breakIfBelow(rowBreakY)
	barWidth := p.contentWidth - 55

	p.setTextColor(colorMuted)
	p.pdf.SetFont("Helvetica", "", 9)
	p.pdf.Text(pdfMargin+2, p.y+3, b.Label)

	p.setFillColor(colorTrack)
	p.pdf.RoundedRect(pdfMargin+45, p.y-1, barWidth, 6, 1.5, "1234", "F")
	if fill := GaugeProgress(b.Score) * barWidth; fill > 0 {
		p.setFillColor(b.Color)
		p.pdf.RoundedRect(pdfMargin+45, p.y-1, fill, 6, 1.5, "1234", "F")
	}

	p.setTextColor(b.Color)
	p.pdf.SetFont("Helvetica", "B", 9)
	p.pdf.Text(pdfMargin+47+barWidth, p.y+3, FormatScore(b.Score))
	p.y += 10
}

func (p *pdfReport) footers() {
	pdf := p.pdf
	pages := pdf.PageCount()
	for i := 1; i <= pages; i++ {
		pdf.SetPage(i)
		p.setFillColor(colorHeaderBg)
		pdf.Rect(0, 287, p.pageWidth, 10, "F")
		p.setTextColor(colorFooter)
		pdf.SetFont("Helvetica", "", 7)
		pdf.Text(pdfMargin, 293, "Land Suitability Analysis - AI-Powered Report")
		pdf.Text(p.pageWidth-pdfMargin-20, 293, fmt.Sprintf("Page %d of %d", i, pages))
	}
}

func (p *pdfReport) setFillColor(c Color) { p.pdf.SetFillColor(c.R, c.G, c.B) }
func (p *pdfReport) setTextColor(c Color) { p.pdf.SetTextColor(c.R, c.G, c.B) }
