// Package extractor recovers a JSON object from free-form model output.
package extractor

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Strategy names the step that produced the object.
type Strategy string

const (
	StrategyNone     Strategy = "none"
	StrategyDirect   Strategy = "direct"
	StrategyFenced   Strategy = "fenced"
	StrategyBoundary Strategy = "boundary"
)

var fencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// Extract returns the JSON object found in raw, or false when none of the
// strategies yields one.
func Extract(raw string) (map[string]any, bool) {
	obj, strategy := ExtractWithStrategy(raw)
	return obj, strategy != StrategyNone
}

// ExtractWithStrategy tries, in order: parsing raw as-is, parsing the first
// fenced code block, and parsing the span from the first '{' to the last '}'.
// Each step runs only when the previous one failed. Only JSON objects count.
func ExtractWithStrategy(raw string) (map[string]any, Strategy) {
	if obj, ok := parseObject(raw); ok {
		return obj, StrategyDirect
	}

	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		if obj, ok := parseObject(strings.TrimSpace(m[1])); ok {
			return obj, StrategyFenced
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end > start {
		if obj, ok := parseObject(raw[start : end+1]); ok {
			return obj, StrategyBoundary
		}
	}

	return nil, StrategyNone
}

func parseObject(s string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}
