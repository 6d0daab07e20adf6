package testruns

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	savingsWindow = 20
	costWindow    = 15
)

// Series is a labelled list of values sharing the chart's labels
type Series struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// LineChart is a chart with categorical labels and one or more series
type LineChart struct {
	Labels   []string `json:"labels"`
	Datasets []Series `json:"datasets"`
}

// CategoryChart reports the mean savings per scenario category
type CategoryChart struct {
	Labels   []string `json:"labels"`
	Datasets []Series `json:"datasets"`
	Counts   []int    `json:"counts"`
}

// ScatterPoint is one scenario plotted as savings against quality
type ScatterPoint struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Scenario string  `json:"scenario"`
}

// TokenDistribution totals the Contextia token usage by kind
type TokenDistribution struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// ChartSet is every chart-ready projection of the uploaded data
type ChartSet struct {
	SavingsOverTime     LineChart         `json:"savings_over_time"`
	CostComparison      LineChart         `json:"cost_comparison"`
	CategoryPerformance CategoryChart     `json:"category_performance"`
	QualityVsSavings    []ScatterPoint    `json:"quality_vs_savings"`
	TokenDistribution   TokenDistribution `json:"token_distribution"`
	BestScenarios       []Result          `json:"best_scenarios"`
	WorstScenarios      []Result          `json:"worst_scenarios"`
}

// Charts builds all dashboard chart datasets
func Charts(runs []TestRun) ChartSet {
	return ChartSet{
		SavingsOverTime:     SavingsOverTime(runs),
		CostComparison:      CostComparison(runs),
		CategoryPerformance: CategoryPerformance(runs),
		QualityVsSavings:    QualityVsSavings(runs),
		TokenDistribution:   Tokens(runs),
		BestScenarios:       TopScenarios(runs, 5, true),
		WorstScenarios:      TopScenarios(runs, 5, false),
	}
}

func tail(runs []TestRun, n int) []TestRun {
	if len(runs) > n {
		return runs[len(runs)-n:]
	}
	return runs
}

// SavingsOverTime plots the savings percentage of the last 20 runs by date
func SavingsOverTime(runs []TestRun) LineChart {
	recent := tail(runs, savingsWindow)
	chart := LineChart{
		Labels:   make([]string, 0, len(recent)),
		Datasets: []Series{{Label: "Cost Savings %", Data: make([]float64, 0, len(recent))}},
	}
	for _, tr := range recent {
		chart.Labels = append(chart.Labels, tr.Run.Date())
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, tr.Run.SavingsPercentage)
	}
	return chart
}

// CostComparison plots Contextia against baseline cost for the last 15 runs
func CostComparison(runs []TestRun) LineChart {
	recent := tail(runs, costWindow)
	contextia := Series{Label: "Contextia Cost", Data: make([]float64, 0, len(recent))}
	baseline := Series{Label: "Baseline Cost", Data: make([]float64, 0, len(recent))}
	labels := make([]string, 0, len(recent))

	for i, tr := range recent {
		labels = append(labels, fmt.Sprintf("Run %d", i+1))
		contextia.Data = append(contextia.Data, tr.Run.TotalContextia)
		baseline.Data = append(baseline.Data, tr.Run.TotalBaseline)
	}
	return LineChart{Labels: labels, Datasets: []Series{contextia, baseline}}
}

// CategoryPerformance averages scenario savings per category, categories in
// the order they first appear.
func CategoryPerformance(runs []TestRun) CategoryChart {
	type bucket struct {
		sum   decimal.Decimal
		count int
	}
	var order []string
	buckets := make(map[string]*bucket)

	for _, tr := range runs {
		for _, r := range tr.Results {
			b, ok := buckets[r.ScenarioCategory]
			if !ok {
				b = &bucket{sum: decimal.Zero}
				buckets[r.ScenarioCategory] = b
				order = append(order, r.ScenarioCategory)
			}
			b.sum = b.sum.Add(decimal.NewFromFloat(r.CostSavingsPercentage))
			b.count++
		}
	}

	chart := CategoryChart{
		Labels:   order,
		Datasets: []Series{{Label: "Average Savings %", Data: make([]float64, 0, len(order))}},
		Counts:   make([]int, 0, len(order)),
	}
	if chart.Labels == nil {
		chart.Labels = []string{}
	}
	for _, name := range order {
		b := buckets[name]
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, mean(b.sum, b.count))
		chart.Counts = append(chart.Counts, b.count)
	}
	return chart
}

// QualityVsSavings returns one point per result that reports a quality score
func QualityVsSavings(runs []TestRun) []ScatterPoint {
	points := []ScatterPoint{}
	for _, tr := range runs {
		for _, r := range tr.Results {
			if r.QualityScore == nil {
				continue
			}
			points = append(points, ScatterPoint{
				X:        r.CostSavingsPercentage,
				Y:        *r.QualityScore,
				Scenario: r.ScenarioName,
			})
		}
	}
	return points
}

// Tokens totals Contextia input, output and cached tokens
func Tokens(runs []TestRun) TokenDistribution {
	var input, output, cached int
	for _, tr := range runs {
		for _, r := range tr.Results {
			input += intValue(r.ContextiaInputTokens)
			output += intValue(r.ContextiaOutputTokens)
			cached += intValue(r.ContextiaCachedTokens)
		}
	}
	return TokenDistribution{
		Labels: []string{"Input Tokens", "Output Tokens", "Cached Tokens"},
		Data:   []int{input, output, cached},
	}
}

// TopScenarios returns the n results with the highest savings percentage
// (best) or the lowest (worst). Ties keep upload order.
func TopScenarios(runs []TestRun, n int, best bool) []Result {
	all := flatten(runs)
	sort.SliceStable(all, func(i, j int) bool {
		if best {
			return all[i].CostSavingsPercentage > all[j].CostSavingsPercentage
		}
		return all[i].CostSavingsPercentage < all[j].CostSavingsPercentage
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func flatten(runs []TestRun) []Result {
	all := []Result{}
	for _, tr := range runs {
		all = append(all, tr.Results...)
	}
	return all
}
