package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tripsampler/internal/report"
	"github.com/wonny/tripsampler/internal/sampler"
	"github.com/wonny/tripsampler/internal/table"
)

// maxSkippedLogged caps per-row warnings under the skip policy
const maxSkippedLogged = 5

type sampleFlags struct {
	drawFlags
	output      string
	outFormat   string
	compression string
	preview     int
}

var sampleOpts sampleFlags

// sampleCmd draws the stratified sample and writes it out
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "시간대별 층화 샘플 추출 (date × hour)",
	Long: `Draw a stratified sample of taxi trips by pickup date and hour.

Every calendar date between the first and last pickup is visited, hours 0-23.
Each non-empty bucket contributes min(size, trips in bucket) trips drawn
without replacement; samples are written in (date, hour) order.

Example:
  go run ./cmd/tripsampler sample --input converted.csv --output test.csv
  go run ./cmd/tripsampler sample -i trips.csv -o sample.parquet --size 2 --seed-mode hashed
  go run ./cmd/tripsampler sample --profile config/profile/tlc_yellow.yaml --malformed skip`,
	RunE: runSample,
}

func init() {
	sampleOpts.register(sampleCmd)

	fs := sampleCmd.Flags()
	fs.StringVarP(&sampleOpts.output, "output", "o", "", "output file (default from SAMPLER_OUTPUT)")
	fs.StringVar(&sampleOpts.outFormat, "output-format", "auto", "output format: auto|csv|tsv|parquet")
	fs.StringVar(&sampleOpts.compression, "compression", "", "parquet compression: zstd|snappy|gzip|lz4|none")
	fs.IntVar(&sampleOpts.preview, "preview", -1, "rows of the sample to print (default from profile)")

	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) error {
	start := time.Now()

	rc, err := setup(cmd, &sampleOpts.drawFlags)
	if err != nil {
		return err
	}

	output := sampleOpts.output
	if output == "" {
		output = rc.cfg.Sampler.Output
	}
	log := rc.log.WithFields(map[string]interface{}{
		"input":  rc.input,
		"output": output,
	})

	err = sampleToFile(cmd, rc, output, start)
	if err != nil {
		log.WithError(err).Error("sampling failed")
		if errors.Is(err, table.ErrInputNotFound) {
			PrintError(cmd.OutOrStdout(), fmt.Sprintf("%s not found. Check the file path.", rc.input))
		}
		return err
	}
	return nil
}

func sampleToFile(cmd *cobra.Command, rc *runContext, output string, start time.Time) error {
	if err := table.CheckDistinct(rc.input, output); err != nil {
		return err
	}

	inFormat, err := table.ParseFormat(sampleOpts.format)
	if err != nil {
		return err
	}
	outFormat, err := table.ParseFormat(sampleOpts.outFormat)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("compression") {
		rc.profile.Output.Compression = sampleOpts.compression
	}
	compression, err := rc.profile.Compression()
	if err != nil {
		return err
	}

	opts, err := rc.profile.SamplerOptions()
	if err != nil {
		return err
	}

	log := rc.log.WithFields(map[string]interface{}{
		"input":     rc.input,
		"column":    opts.Column,
		"size":      opts.Size,
		"seed":      opts.Seed,
		"seed_mode": string(opts.SeedMode),
	})

	src, err := table.Read(rc.input, inFormat)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.WithField("rows", src.Len()).Info("input loaded")

	res, err := sampler.Sample(cmd.Context(), src, opts)
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}
	logSkipped(rc, res.Skipped)

	if err := table.Write(output, res.Output, table.WriteOptions{Format: outFormat, Compression: compression}); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.WithFields(map[string]interface{}{
		"output":  output,
		"buckets": len(res.Plan.Buckets),
		"drawn":   res.Output.Len(),
	}).Info("sample written")

	summary, err := report.Summarize(res)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	summary.RunID = rc.runID
	summary.Input = rc.input
	summary.Output = output
	summary.ProfileHash = rc.profileHash
	summary.Elapsed = time.Since(start)

	preview := rc.profile.Output.PreviewRows
	if cmd.Flags().Changed("preview") {
		preview = sampleOpts.preview
	}

	w := cmd.OutOrStdout()
	report.Print(w, summary)
	report.PrintPreview(w, res.Output, preview)
	fmt.Fprintln(w)
	PrintSuccess(w, fmt.Sprintf("Sampled data saved to %s", output))
	return nil
}

func logSkipped(rc *runContext, skipped []sampler.SkippedRow) {
	if len(skipped) == 0 {
		return
	}
	for i, s := range skipped {
		if i == maxSkippedLogged {
			rc.log.Warnf("... %d more unparseable rows", len(skipped)-maxSkippedLogged)
			break
		}
		rc.log.WithFields(map[string]interface{}{
			"record": s.Row,
			"value":  s.Value,
		}).Warn("unparseable timestamp, row skipped")
	}
	rc.log.WithField("skipped", len(skipped)).Warn("rows skipped")
}
