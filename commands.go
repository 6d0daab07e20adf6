package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/contextia/website/internal/config"
	"github.com/contextia/website/internal/testruns"
	"github.com/spf13/cobra"
)

func readRuns(path string) ([]testruns.TestRun, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	runs, err := testruns.ParseUpload(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return runs, nil
}

func newStatsCmd() *cobra.Command {
	var (
		queriesPerDay int
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "stats <file.json>",
		Short: "Print the dashboard summary for a test-results file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := readRuns(args[0])
			if err != nil {
				return err
			}
			summary := testruns.Summarize(runs)
			roi := testruns.PresetROIs(summary, queriesPerDay)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"summary":         summary,
					"queries_per_day": queriesPerDay,
					"roi":             roi,
				})
			}
			return printStats(cmd.OutOrStdout(), summary, roi)
		},
	}
	cmd.Flags().IntVar(&queriesPerDay, "queries-per-day", 100, "Queries per developer per day for the ROI projection")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printStats(out io.Writer, s testruns.Summary, roi []testruns.PresetROI) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Test runs\t%d\n", s.TotalRuns)
	fmt.Fprintf(tw, "Tests\t%d\n", s.TotalTests)
	fmt.Fprintf(tw, "Avg savings\t%.1f%%\n", s.AvgSavings)
	fmt.Fprintf(tw, "Total saved\t$%.4f\n", s.TotalSaved)
	fmt.Fprintf(tw, "Avg quality\t%.2f\n", s.AvgQualityScore)
	fmt.Fprintf(tw, "Cache hit rate\t%.1f%%\n", s.AvgCacheHitRate*100)
	fmt.Fprintf(tw, "Avg response time\t%.2fs\n", s.AvgResponseTime)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Team\tDaily\tMonthly\tYearly")
	for _, p := range roi {
		fmt.Fprintf(tw, "%s\t$%.2f\t$%.2f\t$%.2f\n", p.Title, p.ROI.Daily, p.ROI.Monthly, p.ROI.Yearly)
	}
	return tw.Flush()
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file.json>",
		Short: "Write the results table of a test-results file as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := readRuns(args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return testruns.WriteCSV(cmd.OutOrStdout(), runs)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := testruns.WriteCSV(f, runs); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the YAML settings file",
	}

	var (
		path     string
		force    bool
		settings config.Settings
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the given defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.SaveSettings(path, settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	f := initCmd.Flags()
	f.StringVar(&path, "path", config.DefaultSettingsFile, "Settings file to write")
	f.BoolVar(&force, "force", false, "Overwrite an existing file")
	f.StringVar(&settings.DataDir, "data-dir", "./data", "Data directory")
	f.StringVar(&settings.ContactEmail, "contact-email", "", "Address that receives contact submissions")
	f.StringVar(&settings.ContactFrom, "contact-from", "onboarding@resend.dev", "Sender address for notifications")
	f.StringVar(&settings.Links.WhatsApp, "whatsapp", "", "WhatsApp number shown on the landing page")
	f.StringVar(&settings.Links.Email, "public-email", "", "Email address shown on the landing page")
	f.StringVar(&settings.Links.LinkedIn, "linkedin", "", "LinkedIn handle shown on the landing page")

	settingsCmd.AddCommand(initCmd)
	return settingsCmd
}
