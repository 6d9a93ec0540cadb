package models

import (
	"encoding/json"
	"strconv"
)

// ReportFromMap builds a report from a parsed JSON object. Fields with an
// unexpected JSON type are treated as absent and unknown keys are dropped, so
// decoding never fails.
func ReportFromMap(m map[string]any) *AnalysisReport {
	r := &AnalysisReport{
		LocationSummary: stringField(m, "location_summary"),
		Limitations:     stringField(m, "limitations"),
		Image:           stringField(m, "_image"),
		Timestamp:       stringField(m, "_timestamp"),
	}

	r.DetectedFeatures = stringMap(m["detected_features"])
	r.PrototypePlan = stringMap(m["prototype_plan"])

	if sm, ok := m["scores"].(map[string]any); ok {
		r.Scores = &Scores{
			Terrain:            numberField(sm, "terrain_score"),
			Accessibility:      numberField(sm, "accessibility_score"),
			Infrastructure:     numberField(sm, "infrastructure_score"),
			EnvironmentalRisk:  numberField(sm, "environmental_risk_score"),
			UrbanCompatibility: numberField(sm, "urban_compatibility_score"),
			Overall:            numberField(sm, "overall_score"),
			Classification:     stringField(sm, "classification"),
		}
	}

	if dm, ok := m["recommended_development"].(map[string]any); ok {
		r.RecommendedDevelopment = &RecommendedDevelopment{
			Type:          stringField(dm, "type"),
			Justification: stringField(dm, "justification"),
		}
	}

	if cm, ok := m["_coordinates"].(map[string]any); ok {
		lat, lng := numberField(cm, "lat"), numberField(cm, "lng")
		if lat != nil && lng != nil {
			r.Coordinates = &Coordinates{Lat: *lat, Lng: *lng}
		}
	}

	return r
}

// UnmarshalJSON decodes leniently through ReportFromMap. Input that is not a
// JSON object is still an error.
func (r *AnalysisReport) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*r = *ReportFromMap(m)
	return nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func numberField(m map[string]any, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return &f
		}
	}
	return nil
}

func stringMap(v any) map[string]string {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
