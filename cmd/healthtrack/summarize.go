package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"healthtrack/internal/domain"
	"healthtrack/internal/insight"
)

var (
	summarizeFile   string
	summarizeMetric string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Run the insight engine over a JSON file of readings",
	Long: `Reads a JSON array of readings in the same shape the API accepts,
validates each one, and prints the insight payload, tips and chart as JSON.

Example:
  healthtrack summarize --file readings.json --metric heartRate`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeFile, "file", "f", "", "JSON file with readings (- for stdin)")
	summarizeCmd.Flags().StringVarP(&summarizeMetric, "metric", "m", "", "Project a single metric instead of the default chart")
	_ = summarizeCmd.MarkFlagRequired("file")
}

type summarizeOutput struct {
	Insights insight.DisplayPayload `json:"insights"`
	Summary  insight.Summary        `json:"summary"`
	Chart    any                    `json:"chart"`
	Rejected []string               `json:"rejected,omitempty"`
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	var metric domain.Metric
	if summarizeMetric != "" {
		m, ok := domain.ParseMetric(summarizeMetric)
		if !ok {
			return fmt.Errorf("unknown metric %q", summarizeMetric)
		}
		metric = m
	}

	in := io.Reader(cmd.InOrStdin())
	if summarizeFile != "-" {
		f, err := os.Open(summarizeFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out, err := summarize(in, metric, time.Now())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// summarize validates every raw reading in r and runs the engine over the
// accepted ones. Invalid entries are reported, not fatal.
func summarize(r io.Reader, metric domain.Metric, now time.Time) (summarizeOutput, error) {
	var raws []insight.RawReading
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return summarizeOutput{}, fmt.Errorf("decode readings: %w", err)
	}

	var (
		window   []domain.Reading
		rejected []string
	)
	for i, raw := range raws {
		raw.OwnerID = 1
		reading, err := insight.Validate(raw, now)
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("#%d: %v", i, err))
			continue
		}
		reading.ID = int64(i + 1)
		window = append(window, reading)
	}

	summary := insight.Summarize(window)
	out := summarizeOutput{
		Insights: insight.Format(summary, insight.DeriveTips(insight.Latest(window))),
		Summary:  summary,
		Rejected: rejected,
	}
	if metric != "" {
		out.Chart = insight.Project(window, metric)
	} else {
		out.Chart = insight.ProjectAll(window)
	}
	return out, nil
}
