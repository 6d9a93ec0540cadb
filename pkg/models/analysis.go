package models

// Detected feature keys in display order.
const (
	FeatureTerrain          = "terrain"
	FeatureVegetation       = "vegetation_density"
	FeatureWaterBodies      = "water_bodies"
	FeatureRoads            = "roads"
	FeatureNearbyStructures = "nearby_structures"
	FeatureUrbanDensity     = "urban_density"
	FeatureRiskIndicators   = "risk_indicators"
)

// FeatureKeys lists the detected feature keys in display order.
var FeatureKeys = []string{
	FeatureTerrain,
	FeatureVegetation,
	FeatureWaterBodies,
	FeatureRoads,
	FeatureNearbyStructures,
	FeatureUrbanDensity,
	FeatureRiskIndicators,
}

// PlanKeys lists the prototype plan keys the model is asked for, in display order.
// Reports may carry additional keys.
var PlanKeys = []string{
	"zoning_distribution",
	"road_layout",
	"building_arrangement",
	"green_space_plan",
	"infrastructure_layout",
}

// AnalysisReport is the land suitability verdict for one image.
// Every model-produced field is optional; the underscore-prefixed fields are
// set by the server after a successful analysis.
type AnalysisReport struct {
	LocationSummary        string                  `json:"location_summary,omitempty"`
	DetectedFeatures       map[string]string       `json:"detected_features,omitempty"`
	Scores                 *Scores                 `json:"scores,omitempty"`
	RecommendedDevelopment *RecommendedDevelopment `json:"recommended_development,omitempty"`
	PrototypePlan          map[string]string       `json:"prototype_plan,omitempty"`
	Limitations            string                  `json:"limitations,omitempty"`

	Image       string       `json:"_image,omitempty"`
	Timestamp   string       `json:"_timestamp,omitempty"`
	Coordinates *Coordinates `json:"_coordinates,omitempty"`
}

// Scores holds the per-dimension scores on a 0-10 scale. A nil pointer means
// the model did not supply the value.
type Scores struct {
	Terrain            *float64 `json:"terrain_score,omitempty"`
	Accessibility      *float64 `json:"accessibility_score,omitempty"`
	Infrastructure     *float64 `json:"infrastructure_score,omitempty"`
	EnvironmentalRisk  *float64 `json:"environmental_risk_score,omitempty"`
	UrbanCompatibility *float64 `json:"urban_compatibility_score,omitempty"`
	Overall            *float64 `json:"overall_score,omitempty"`
	Classification     string   `json:"classification,omitempty"`
}

type RecommendedDevelopment struct {
	Type          string `json:"type,omitempty"`
	Justification string `json:"justification,omitempty"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Float returns a pointer to v, for building Scores literals.
func Float(v float64) *float64 {
	return &v
}

// OverallScore returns the overall score, or 0 when absent.
func (r *AnalysisReport) OverallScore() float64 {
	if r == nil || r.Scores == nil || r.Scores.Overall == nil {
		return 0
	}
	return *r.Scores.Overall
}
