package presentation

import (
	"strings"

	"go-land-inspector/pkg/models"

	"github.com/arbovm/levenshtein"
)

// maxLabelDistance is the largest edit distance accepted as a misspelling.
const maxLabelDistance = 3

var classKeywords = []struct {
	keyword string
	label   string
}{
	{"highly", models.ClassHighlySuitable},
	{"moderately", models.ClassModeratelySuitable},
	{"low", models.ClassLowSuitability},
	{"not", models.ClassNotSuitable},
}

// NormalizeClassification maps a free-text classification onto one of
// models.Classifications. It reports false when nothing matches.
func NormalizeClassification(label string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return "", false
	}

	for _, k := range classKeywords {
		if strings.Contains(l, k.keyword) {
			return k.label, true
		}
	}

	best, bestDist := "", maxLabelDistance+1
	for _, c := range models.Classifications {
		if d := levenshtein.Distance(l, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// ClassificationColor colours a history entry by its label. Empty labels are
// gray and unrecognised ones red.
func ClassificationColor(label string) Color {
	if strings.TrimSpace(label) == "" {
		return ColorGray
	}
	switch c, _ := NormalizeClassification(label); c {
	case models.ClassHighlySuitable:
		return ColorGreen
	case models.ClassModeratelySuitable:
		return ColorLime
	case models.ClassLowSuitability:
		return ColorAmber
	default:
		return ColorRed
	}
}

// DisplayClassification returns the canonical label for a model's
// classification, or the trimmed input when none matches.
func DisplayClassification(label string) string {
	if c, ok := NormalizeClassification(label); ok {
		return c
	}
	return strings.TrimSpace(label)
}
