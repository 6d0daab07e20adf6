// Package testruns holds the uploaded benchmark data shown on the dashboard:
// the record types, the file store and the summary/chart projections.
package testruns

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidJSON is returned when an upload does not parse as JSON
	ErrInvalidJSON = errors.New("invalid JSON")
	// ErrNotArray is returned when an upload parses but is not an array
	ErrNotArray = errors.New("JSON must be an array of test runs")
)

// utf8BOM is written by some editors at the start of a file
var utf8BOM = []byte("\ufeff")

// Run is the summary of one benchmark run
type Run struct {
	RunID             string  `json:"run_id"`
	Timestamp         string  `json:"timestamp"`
	ScenariosCount    int     `json:"scenarios_count"`
	TotalContextia    float64 `json:"total_contextia_cost"`
	TotalBaseline     float64 `json:"total_baseline_cost"`
	TotalSaved        float64 `json:"total_saved"`
	SavingsPercentage float64 `json:"savings_percentage"`
	AvgCostSavings    float64 `json:"avg_cost_savings"`
	AvgTokenSavings   float64 `json:"avg_token_savings"`
	CacheHitRate      float64 `json:"cache_hit_rate"`
	Status            string  `json:"status"`
}

// Result is the outcome of a single scenario within a run
type Result struct {
	ScenarioName          string   `json:"scenario_name"`
	ScenarioCategory      string   `json:"scenario_category"`
	CostSavingsPercentage float64  `json:"cost_savings_percentage"`
	ContextiaCost         float64  `json:"contextia_cost"`
	BaselineCost          float64  `json:"baseline_cost"`
	ContextiaTokens       int      `json:"contextia_tokens"`
	BaselineTokens        int      `json:"baseline_tokens"`
	ContextiaInputTokens  *int     `json:"contextia_input_tokens,omitempty"`
	ContextiaOutputTokens *int     `json:"contextia_output_tokens,omitempty"`
	ContextiaCachedTokens *int     `json:"contextia_cached_tokens,omitempty"`
	BaselineInputTokens   *int     `json:"baseline_input_tokens,omitempty"`
	BaselineOutputTokens  *int     `json:"baseline_output_tokens,omitempty"`
	QualityScore          *float64 `json:"quality_score,omitempty"`
	ResponseTime          *float64 `json:"response_time,omitempty"`
}

// TestRun is one uploaded record: a run summary plus its scenario results
type TestRun struct {
	Run     Run      `json:"run"`
	Results []Result `json:"results"`
}

// ParseUpload decodes an uploaded document. Only the top-level shape is
// enforced; elements are decoded leniently.
func ParseUpload(data []byte) ([]TestRun, error) {
	trimmed := trimDocument(data)
	if !json.Valid(trimmed) {
		return nil, ErrInvalidJSON
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	runs := make([]TestRun, 0, len(raw))
	for _, item := range raw {
		var run TestRun
		// Elements that are not objects (or carry mistyped fields) still count
		// as records; they just contribute zero values.
		_ = json.Unmarshal(item, &run)
		runs = append(runs, run)
	}
	return runs, nil
}

// trimDocument drops a leading byte-order mark and surrounding whitespace
func trimDocument(data []byte) []byte {
	return bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
}

// Date formats the run timestamp as a calendar date, falling back to the raw
// string when it is not RFC3339.
func (r Run) Date() string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, r.Timestamp); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return r.Timestamp
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
