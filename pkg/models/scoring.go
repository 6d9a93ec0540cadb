package models

const (
	ClassHighlySuitable     = "Highly Suitable"
	ClassModeratelySuitable = "Moderately Suitable"
	ClassLowSuitability     = "Low Suitability"
	ClassNotSuitable        = "Not Suitable"
)

// Classifications lists the suitability labels from best to worst.
var Classifications = []string{
	ClassHighlySuitable,
	ClassModeratelySuitable,
	ClassLowSuitability,
	ClassNotSuitable,
}

// Classification thresholds are inclusive lower bounds.
const (
	HighlySuitableThreshold     = 8.0
	ModeratelySuitableThreshold = 6.0
	LowSuitabilityThreshold     = 4.0
)

// Scoring weights for the overall score.
const (
	WeightTerrain             = 0.25
	WeightAccessibility       = 0.20
	WeightInfrastructure      = 0.20
	WeightUrbanCompatibility  = 0.15
	WeightEnvironmentalSafety = 0.20
)

// Classify maps an overall score onto its suitability label.
func Classify(overall float64) string {
	switch {
	case overall >= HighlySuitableThreshold:
		return ClassHighlySuitable
	case overall >= ModeratelySuitableThreshold:
		return ClassModeratelySuitable
	case overall >= LowSuitabilityThreshold:
		return ClassLowSuitability
	default:
		return ClassNotSuitable
	}
}

// ExpectedOverall computes the weighted overall score from the five component
// scores, each clamped to [0,10]. It reports false when any component is missing.
func ExpectedOverall(s *Scores) (float64, bool) {
	if s == nil {
		return 0, false
	}
	parts := []*float64{s.Terrain, s.Accessibility, s.Infrastructure, s.EnvironmentalRisk, s.UrbanCompatibility}
	for _, p := range parts {
		if p == nil {
			return 0, false
		}
	}

	overall := WeightTerrain*clampScore(*s.Terrain) +
		WeightAccessibility*clampScore(*s.Accessibility) +
		WeightInfrastructure*clampScore(*s.Infrastructure) +
		WeightUrbanCompatibility*clampScore(*s.UrbanCompatibility) +
		WeightEnvironmentalSafety*(10-clampScore(*s.EnvironmentalRisk))
	return overall, true
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
