package testruns

import (
	"github.com/shopspring/decimal"
)

// Summary holds the headline figures of the dashboard
type Summary struct {
	TotalRuns       int     `json:"total_runs"`
	TotalTests      int     `json:"total_tests"`
	AvgSavings      float64 `json:"avg_savings"`
	TotalSaved      float64 `json:"total_saved"`
	AvgQualityScore float64 `json:"avg_quality_score"`
	AvgCacheHitRate float64 `json:"avg_cache_hit_rate"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// Summarize reduces runs to the dashboard headline figures. Run-level
// averages are taken over runs; quality and response time only over results
// that report them.
func Summarize(runs []TestRun) Summary {
	if len(runs) == 0 {
		return Summary{}
	}

	var (
		totalTests   int
		savingsSum   = decimal.Zero
		savedSum     = decimal.Zero
		cacheHitSum  = decimal.Zero
		qualitySum   = decimal.Zero
		qualityCount int
		responseSum  = decimal.Zero
		responseN    int
	)

	for _, tr := range runs {
		totalTests += len(tr.Results)
		savingsSum = savingsSum.Add(decimal.NewFromFloat(tr.Run.SavingsPercentage))
		savedSum = savedSum.Add(decimal.NewFromFloat(tr.Run.TotalSaved))
		cacheHitSum = cacheHitSum.Add(decimal.NewFromFloat(tr.Run.CacheHitRate))

		for _, r := range tr.Results {
			if r.QualityScore != nil {
				qualitySum = qualitySum.Add(decimal.NewFromFloat(*r.QualityScore))
				qualityCount++
			}
			if r.ResponseTime != nil {
				responseSum = responseSum.Add(decimal.NewFromFloat(*r.ResponseTime))
				responseN++
			}
		}
	}

	n := decimal.NewFromInt(int64(len(runs)))
	return Summary{
		TotalRuns:       len(runs),
		TotalTests:      totalTests,
		AvgSavings:      savingsSum.Div(n).InexactFloat64(),
		TotalSaved:      savedSum.InexactFloat64(),
		AvgCacheHitRate: cacheHitSum.Div(n).InexactFloat64(),
		AvgQualityScore: mean(qualitySum, qualityCount),
		AvgResponseTime: mean(responseSum, responseN),
	}
}

func mean(sum decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
}

// ROI projects savings for a number of queries per day
type ROI struct {
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// TeamPreset is a named query-volume multiplier
type TeamPreset struct {
	Title      string `json:"title"`
	Multiplier int    `json:"multiplier"`
}

// TeamPresets are the team sizes the dashboard projects savings for
var TeamPresets = []TeamPreset{
	{Title: "Solo Developer", Multiplier: 1},
	{Title: "Small Team (5 devs)", Multiplier: 5},
	{Title: "Medium Team (20 devs)", Multiplier: 20},
	{Title: "Enterprise (100+ devs)", Multiplier: 100},
}

// PresetROI pairs a preset with its projection
type PresetROI struct {
	TeamPreset
	ROI ROI `json:"roi"`
}

// CalculateROI scales the average saving per test to queriesPerDay ×
// multiplier queries a day, with 30-day months and 365-day years.
func CalculateROI(s Summary, queriesPerDay, multiplier int) ROI {
	if s.TotalTests == 0 {
		return ROI{}
	}

	perQuery := decimal.NewFromFloat(s.TotalSaved).Div(decimal.NewFromInt(int64(s.TotalTests)))
	daily := perQuery.Mul(decimal.NewFromInt(int64(queriesPerDay) * int64(multiplier)))

	return ROI{
		Daily:   daily.InexactFloat64(),
		Monthly: daily.Mul(decimal.NewFromInt(30)).InexactFloat64(),
		Yearly:  daily.Mul(decimal.NewFromInt(365)).InexactFloat64(),
	}
}

// PresetROIs computes CalculateROI for every team preset
func PresetROIs(s Summary, queriesPerDay int) []PresetROI {
	out := make([]PresetROI, 0, len(TeamPresets))
	for _, p := range TeamPresets {
		out = append(out, PresetROI{TeamPreset: p, ROI: CalculateROI(s, queriesPerDay, p.Multiplier)})
	}
	return out
}
