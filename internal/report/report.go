// Package report summarizes a sampling run for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
	"github.com/olekukonko/tablewriter"

	"github.com/wonny/tripsampler/internal/sampler"
	"github.com/wonny/tripsampler/internal/table"
)

// Quantiles of bucket population (records per non-empty bucket)
type Quantiles struct {
	P50 float64
	P90 float64
	P99 float64
	Max float64
}

// Summary of one run
type Summary struct {
	RunID       string
	Input       string
	Output      string
	ProfileHash string

	InputRows   int
	OutputRows  int
	SkippedRows int

	First        time.Time
	Last         time.Time
	Days         int
	Buckets      int
	EmptyBuckets int
	Population   Quantiles

	Elapsed time.Duration
}

// Summarize builds a Summary from a sampling result. Identity fields (run id, paths,
// profile hash, elapsed) are left to the caller.
func Summarize(res *sampler.Result) (*Summary, error) {
	q, err := PopulationQuantiles(res.Plan.Buckets)
	if err != nil {
		return nil, err
	}

	return &Summary{
		InputRows:    res.InputRows,
		OutputRows:   res.Output.Len(),
		SkippedRows:  len(res.Skipped),
		First:        res.Plan.First,
		Last:         res.Plan.Last,
		Days:         res.Plan.Days,
		Buckets:      len(res.Plan.Buckets),
		EmptyBuckets: res.Plan.EmptyBuckets,
		Population:   q,
	}, nil
}

// PopulationQuantiles sketches bucket populations (1% relative accuracy).
// Max is exact.
func PopulationQuantiles(buckets []sampler.BucketStat) (Quantiles, error) {
	var q Quantiles
	if len(buckets) == 0 {
		return q, nil
	}

	sketch, err := ddsketch.NewDefaultDDSketch(0.01)
	if err != nil {
		return q, fmt.Errorf("create sketch: %w", err)
	}

	for _, b := range buckets {
		if err := sketch.Add(float64(b.Population)); err != nil {
			return q, fmt.Errorf("add to sketch: %w", err)
		}
		if p := float64(b.Population); p > q.Max {
			q.Max = p
		}
	}

	q.P50, _ = sketch.GetValueAtQuantile(0.50)
	q.P90, _ = sketch.GetValueAtQuantile(0.90)
	q.P99, _ = sketch.GetValueAtQuantile(0.99)
	return q, nil
}

// Print writes the run summary
func Print(w io.Writer, s *Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "  Stratified Sample (date × hour)")
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")
	if s.RunID != "" {
		printKeyValue(w, "Run ID", s.RunID)
	}
	if s.Input != "" {
		printKeyValue(w, "Input", s.Input)
	}
	if s.Output != "" {
		printKeyValue(w, "Output", s.Output)
	}
	if len(s.ProfileHash) >= 12 {
		printKeyValue(w, "Profile", s.ProfileHash[:12])
	}
	fmt.Fprintln(w, "───────────────────────────────────────────────────────────")

	printKeyValue(w, "Original rows", strconv.Itoa(s.InputRows))
	printKeyValue(w, "Sampled rows", strconv.Itoa(s.OutputRows))
	if s.SkippedRows > 0 {
		printKeyValue(w, "Skipped rows", fmt.Sprintf("%d (unparseable timestamp)", s.SkippedRows))
	}

	if s.Days > 0 {
		printKeyValue(w, "Period", fmt.Sprintf("%s ~ %s (%d days)",
			s.First.Format(time.DateOnly), s.Last.Format(time.DateOnly), s.Days))
		printKeyValue(w, "Buckets", fmt.Sprintf("%d non-empty, %d empty", s.Buckets, s.EmptyBuckets))
		printKeyValue(w, "Trips/bucket", fmt.Sprintf("p50 %.0f  p90 %.0f  p99 %.0f  max %.0f",
			s.Population.P50, s.Population.P90, s.Population.P99, s.Population.Max))
	}

	if s.Elapsed > 0 {
		printKeyValue(w, "Elapsed", s.Elapsed.Round(time.Millisecond).String())
	}
	fmt.Fprintln(w, "═══════════════════════════════════════════════════════════")
}

// PrintPreview renders the first n rows of t as a table
func PrintPreview(w io.Writer, t *table.Table, n int) {
	rows := t.Head(n)
	if len(rows) == 0 || len(t.Columns) == 0 {
		return
	}

	fmt.Fprintf(w, "\nFirst %d rows of the sampled data:\n", len(rows))
	tw := newTable(w, t.Columns)
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
}

// PrintBuckets renders the limit most populated buckets, busiest first
func PrintBuckets(w io.Writer, buckets []sampler.BucketStat, limit int) {
	if len(buckets) == 0 || limit <= 0 {
		return
	}

	sorted := make([]sampler.BucketStat, len(buckets))
	copy(sorted, buckets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Population > sorted[j].Population
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	fmt.Fprintf(w, "\nBusiest %d buckets:\n", len(sorted))
	tw := newTable(w, []string{"bucket", "trips", "drawn"})
	for _, b := range sorted {
		tw.Append([]string{b.Key.String(), strconv.Itoa(b.Population), strconv.Itoa(b.Drawn)})
	}
	tw.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetHeader(header)
	return tw
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %-14s : %s\n", key, value)
}
