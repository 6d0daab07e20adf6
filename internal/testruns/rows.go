package testruns

import (
	"sort"
	"strings"
)

// Row is a scenario result annotated with the run it belongs to
type Row struct {
	Result
	RunID     string `json:"runId"`
	Timestamp string `json:"timestamp"`
}

// Filter selects and orders the results table
type Filter struct {
	// Category keeps only results of one category; "" or "all" keeps all
	Category string
	// Sort is the JSON name of the column to order by; "" keeps upload order
	Sort string
	// Desc orders descending
	Desc bool
	// Limit caps the number of rows returned; 0 means no cap
	Limit int
}

// Table is a page of the results table
type Table struct {
	Rows       []Row    `json:"rows"`
	Total      int      `json:"total"`
	Categories []string `json:"categories"`
}

// sortKey extracts a comparable value: strings are lowercased, missing
// optional numbers sort as zero.
type sortKey func(Row) interface{}

var sortKeys = map[string]sortKey{
	"scenario_name":           func(r Row) interface{} { return strings.ToLower(r.ScenarioName) },
	"scenario_category":       func(r Row) interface{} { return strings.ToLower(r.ScenarioCategory) },
	"cost_savings_percentage": func(r Row) interface{} { return r.CostSavingsPercentage },
	"contextia_cost":          func(r Row) interface{} { return r.ContextiaCost },
	"baseline_cost":           func(r Row) interface{} { return r.BaselineCost },
	"contextia_tokens":        func(r Row) interface{} { return float64(r.ContextiaTokens) },
	"baseline_tokens":         func(r Row) interface{} { return float64(r.BaselineTokens) },
	"contextia_input_tokens":  func(r Row) interface{} { return float64(intValue(r.ContextiaInputTokens)) },
	"contextia_output_tokens": func(r Row) interface{} { return float64(intValue(r.ContextiaOutputTokens)) },
	"contextia_cached_tokens": func(r Row) interface{} { return float64(intValue(r.ContextiaCachedTokens)) },
	"baseline_input_tokens":   func(r Row) interface{} { return float64(intValue(r.BaselineInputTokens)) },
	"baseline_output_tokens":  func(r Row) interface{} { return float64(intValue(r.BaselineOutputTokens)) },
	"quality_score":           func(r Row) interface{} { return floatValue(r.QualityScore) },
	"response_time":           func(r Row) interface{} { return floatValue(r.ResponseTime) },
	"runId":                   func(r Row) interface{} { return strings.ToLower(r.RunID) },
	"timestamp":               func(r Row) interface{} { return strings.ToLower(r.Timestamp) },
}

// IsSortColumn reports whether column can be used as Filter.Sort
func IsSortColumn(column string) bool {
	_, ok := sortKeys[column]
	return ok
}

// Rows flattens runs into table rows, then filters, sorts and limits them
func Rows(runs []TestRun, f Filter) Table {
	rows := []Row{}
	for _, tr := range runs {
		for _, r := range tr.Results {
			if f.Category != "" && f.Category != "all" && r.ScenarioCategory != f.Category {
				continue
			}
			rows = append(rows, Row{Result: r, RunID: tr.Run.RunID, Timestamp: tr.Run.Timestamp})
		}
	}

	if key, ok := sortKeys[f.Sort]; ok {
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := key(rows[i]), key(rows[j])
			if f.Desc {
				return less(b, a)
			}
			return less(a, b)
		})
	}

	table := Table{Total: len(rows), Categories: Categories(runs)}
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}
	table.Rows = rows
	return table
}

func less(a, b interface{}) bool {
	switch av := a.(type) {
	case string:
		return av < b.(string)
	case float64:
		return av < b.(float64)
	}
	return false
}

// Categories lists "all" followed by every category in first-seen order
func Categories(runs []TestRun) []string {
	cats := []string{"all"}
	seen := make(map[string]bool)
	for _, tr := range runs {
		for _, r := range tr.Results {
			if !seen[r.ScenarioCategory] {
				seen[r.ScenarioCategory] = true
				cats = append(cats, r.ScenarioCategory)
			}
		}
	}
	return cats
}

func floatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
