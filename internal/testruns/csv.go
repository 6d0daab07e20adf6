package testruns

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

var csvHeader = []string{
	"Scenario", "Category", "Savings %", "Contextia Cost", "Baseline Cost", "Cost Saved", "Quality Score",
}

// WriteCSV writes one line per scenario result
func WriteCSV(w io.Writer, runs []TestRun) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, tr := range runs {
		for _, r := range tr.Results {
			quality := "N/A"
			if r.QualityScore != nil {
				quality = fmt.Sprintf("%.2f", *r.QualityScore)
			}
			record := []string{
				r.ScenarioName,
				r.ScenarioCategory,
				fmt.Sprintf("%.2f", r.CostSavingsPercentage),
				fmt.Sprintf("%.4f", r.ContextiaCost),
				fmt.Sprintf("%.4f", r.BaselineCost),
				fmt.Sprintf("%.4f", r.BaselineCost-r.ContextiaCost),
				quality,
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename is the attachment name for an export taken at t
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("contextia-results-%s.csv", t.UTC().Format("2006-01-02"))
}
