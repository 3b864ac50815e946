package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/tripsampler/internal/report"
	"github.com/wonny/tripsampler/internal/sampler"
	"github.com/wonny/tripsampler/internal/table"
)

type inspectFlags struct {
	drawFlags
	top int
}

var inspectOpts inspectFlags

// inspectCmd reports bucket statistics without writing anything
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "버킷 분포 확인 (파일 쓰기 없음)",
	Long: `Show how the input spreads over (date, hour) buckets.

확인 항목:
- 원본/샘플 행 수
- 기간 및 빈 버킷 수
- 버킷당 트립 수 분포 (p50/p90/p99/max)
- 가장 붐비는 버킷

Example:
  go run ./cmd/tripsampler inspect -i converted.csv
  go run ./cmd/tripsampler inspect -i yellow_tripdata_2024-01.parquet --top 20`,
	RunE: runInspect,
}

func init() {
	inspectOpts.register(inspectCmd)
	inspectCmd.Flags().IntVar(&inspectOpts.top, "top", 10, "busiest buckets to list")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	rc, err := setup(cmd, &inspectOpts.drawFlags)
	if err != nil {
		return err
	}

	format, err := table.ParseFormat(inspectOpts.format)
	if err != nil {
		return err
	}
	opts, err := rc.profile.SamplerOptions()
	if err != nil {
		return err
	}

	src, err := table.Read(rc.input, format)
	if err != nil {
		rc.log.WithError(err).Error("inspect failed")
		return fmt.Errorf("read input: %w", err)
	}

	res, err := sampler.Sample(cmd.Context(), src, opts)
	if err != nil {
		rc.log.WithError(err).Error("inspect failed")
		return fmt.Errorf("sample: %w", err)
	}
	logSkipped(rc, res.Skipped)
	rc.log.Infof("inspected %d rows over %d days", res.InputRows, res.Plan.Days)

	summary, err := report.Summarize(res)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	summary.RunID = rc.runID
	summary.Input = rc.input
	summary.ProfileHash = rc.profileHash

	w := cmd.OutOrStdout()
	report.Print(w, summary)
	report.PrintBuckets(w, res.Plan.Buckets, inspectOpts.top)

	if res.Plan.EmptyBuckets > 0 {
		PrintWarning(w, fmt.Sprintf("%d of %d buckets have no trips", res.Plan.EmptyBuckets, res.Plan.Days*24))
	}
	return nil
}
